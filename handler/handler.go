package handler

import (
	"github.com/csy100/touch-api/config"
	"github.com/csy100/touch-api/internal/jsonlog"
	"github.com/csy100/touch-api/service"
)

// Handler defines Handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	service service.Service
}

// New creates a new instance of Handler.
func New(cfg config.Config, logger *jsonlog.Logger, service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		service: service,
	}
}
