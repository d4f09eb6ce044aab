package main

import (
	"os"
	"sync"

	"github.com/csy100/touch-api/clients"
	"github.com/csy100/touch-api/config"
	"github.com/csy100/touch-api/handler"
	"github.com/csy100/touch-api/internal/cache"
	"github.com/csy100/touch-api/internal/identity"
	"github.com/csy100/touch-api/internal/jsonlog"
	"github.com/csy100/touch-api/repository"
	"github.com/csy100/touch-api/repository/postgres.go"
	"github.com/csy100/touch-api/service"
	"github.com/joho/godotenv"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Initialize configuration. A local .env is optional.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.PrintError(err, nil)
	}
	cfg, err := config.Decode()
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Other shared resources: waitgroup and the two cache tiers. The app
	// runs without the Redis tier when it is disabled or unreachable.
	var wg sync.WaitGroup
	local := cache.NewLocal(cache.UserBriefTTL, cache.ProjectExistsTTL)
	go local.Start()
	var remote *cache.Remote
	if cfg.Redis.Enabled {
		remote, err = cache.NewRemote(cfg.Redis.URL, cache.UserBriefTTL, cache.ProjectExistsTTL)
		if err != nil {
			logger.PrintWarn("redis unavailable, continuing with in-process cache only", map[string]string{
				"error": err.Error(),
			})
		} else {
			defer remote.Close()
			logger.PrintInfo("redis connection established", nil)
		}
	}
	tiered := cache.NewTiered(local, remote, logger)

	// Identity provider client
	provider := identity.New(cfg.Identity.URL, cfg.Identity.APIKey, clients.NewHTTPClient())

	// Application layers
	repo := repository.New(db)
	service := service.New(cfg, &wg, logger, repo, tiered, provider)
	handler := handler.New(cfg, logger, service)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
