package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/rs/cors"
)

// Cors allows credentialed requests from CORS_ALLOWED_ORIGINS, or from any
// origin when it is unset.
func Cors() Middleware {
	var allowed []string
	if s, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && s != "" {
		for _, origin := range strings.Split(s, ",") {
			allowed = append(allowed, strings.TrimSpace(origin))
		}
	}

	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			if len(allowed) == 0 {
				return true
			}
			for _, o := range allowed {
				if strings.EqualFold(o, origin) {
					return true
				}
			}
			return false
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
