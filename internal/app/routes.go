package app

import (
	"net/http"

	"github.com/vancomm/chainreaction-server/internal/config"
	"github.com/vancomm/chainreaction-server/internal/handlers"
)

func (a *App) loadRoutes() {
	base := config.BasePath()

	puzzle := handlers.NewPuzzleHandler(a.logger, a.db, a.ws, a.timings)
	a.router.HandleFunc("POST "+base+"/puzzle", puzzle.NewPuzzle)
	a.router.HandleFunc("GET "+base+"/puzzle/{id}", puzzle.Fetch)
	a.router.HandleFunc("POST "+base+"/puzzle/{id}/attempt", puzzle.Attempt)
	a.router.HandleFunc("POST "+base+"/puzzle/{id}/restart", puzzle.Restart)
	a.router.HandleFunc("GET "+base+"/puzzle/{id}/connect", puzzle.Connect)

	records := handlers.NewRecords(a.logger, a.db)
	a.router.HandleFunc("GET "+base+"/records", records.List)

	auth := handlers.NewAuth(a.logger, a.db, a.cookies)
	a.router.HandleFunc("GET "+base+"/auth/status", auth.Status)
	a.router.HandleFunc("POST "+base+"/auth/register", auth.Register)
	a.router.HandleFunc("POST "+base+"/auth/login", auth.Login)
	a.router.HandleFunc("POST "+base+"/auth/logout", auth.Logout)

	a.router.HandleFunc("GET "+base+"/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
