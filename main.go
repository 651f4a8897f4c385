package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/anket-platform/anket/app"
	"github.com/anket-platform/anket/config"
	"github.com/anket-platform/anket/database"
	"github.com/anket-platform/anket/httpx"
	"github.com/anket-platform/anket/log"
	"github.com/anket-platform/anket/ratelimit"
	"github.com/anket-platform/anket/routes"
	"github.com/anket-platform/anket/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	app := app.App{
		Store:         store.New(db),
		DB:            db,
		BearerServer:  httpx.NewBearerServer(db, cfg),
		Config:        cfg,
		SubmitLimiter: ratelimit.PerClientLimiter(cfg.SubmitLimit, cfg.SubmitWindow),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
