package service

import (
	"context"
	"sync"
	"time"

	"github.com/csy100/touch-api/config"
	"github.com/csy100/touch-api/internal/cache"
	"github.com/csy100/touch-api/internal/identity"
	"github.com/csy100/touch-api/internal/jsonlog"
	"github.com/csy100/touch-api/repository"
)

type Service interface {
	comments
	projects
	auth
	Health() map[string]string
}

// identityProvider is the subset of the identity client the service layer
// depends on.
type identityProvider interface {
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignUp(ctx context.Context, email, password string) (*identity.User, error)
	ResendConfirmation(ctx context.Context, email string) error
	RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error)
	GetUser(ctx context.Context, accessToken string) (*identity.User, error)
	SendPasswordReset(ctx context.Context, email string) error
	SignOut(ctx context.Context, accessToken string) error
}

// Services defines a service layer.
type service struct {
	config   config.Config
	wg       *sync.WaitGroup
	logger   *jsonlog.Logger
	repo     repository.Repository
	cache    *cache.Tiered
	identity identityProvider
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, cache *cache.Tiered, identity identityProvider) *service {
	return &service{
		config:   cfg,
		wg:       wg,
		logger:   logger,
		repo:     repo,
		cache:    cache,
		identity: identity,
	}
}

// Health reports the state of the backing stores.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	status := map[string]string{
		"database": "up",
		"cache":    "up",
	}
	if err := s.repo.Ping(); err != nil {
		status["database"] = "down"
	}
	if err := s.cache.Ping(ctx); err != nil {
		status["cache"] = "down"
	}
	return status
}
