package server

import (
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tomlord1122/todo-server/internal/config"
	"github.com/Tomlord1122/todo-server/internal/database"
	"github.com/Tomlord1122/todo-server/internal/metrics"
	"github.com/Tomlord1122/todo-server/internal/service"
)

// Deps are the long-lived collaborators the handlers borrow. They are built
// once in main and shared by every request.
type Deps struct {
	TodoService service.TodoService
	DB          database.Service
	Logger      zerolog.Logger
	// Metrics is optional; nil disables instrumentation and /metrics.
	Metrics *metrics.Metrics
	// Static overrides cfg.StaticDir when set.
	Static fs.FS
}

type Server struct {
	cfg         config.Config
	todoService service.TodoService
	db          database.Service
	metrics     *metrics.Metrics
	static      http.Handler
	log         zerolog.Logger
}

func NewServer(cfg config.Config, deps Deps) *http.Server {
	staticFS := deps.Static
	if staticFS == nil {
		staticFS = os.DirFS(cfg.StaticDir)
	}

	appServer := &Server{
		cfg:         cfg,
		todoService: deps.TodoService,
		db:          deps.DB,
		metrics:     deps.Metrics,
		static:      newStaticFiles(staticFS),
		log:         deps.Logger,
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
