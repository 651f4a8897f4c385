package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/anket-platform/anket/config"
	"github.com/anket-platform/anket/ratelimit"
	"github.com/anket-platform/anket/store"
)

type App struct {
	*store.Store
	DB *sql.DB
	*oauth.BearerServer
	config.Config
	SubmitLimiter ratelimit.Limiter
}
