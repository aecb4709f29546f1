package config

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts connections from any origin unless WS_ALLOWED_ORIGINS
// holds a comma separated list of hosts.
func NewWebSocket() (*WebSocket, error) {
	var allowed []string
	if s, ok := os.LookupEnv("WS_ALLOWED_ORIGINS"); ok && s != "" {
		for _, host := range strings.Split(s, ",") {
			allowed = append(allowed, strings.TrimSpace(host))
		}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin, err := url.Parse(r.Header.Get("Origin"))
			if err != nil {
				return false
			}
			for _, host := range allowed {
				if strings.EqualFold(origin.Host, host) {
					return true
				}
			}
			return false
		},
	}

	ws := &WebSocket{
		Upgrader: upgrader,
	}

	return ws, nil
}
