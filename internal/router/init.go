package router

import (
	"github.com/oksasatya/go-user-accounts/internal/container"
	handlers "github.com/oksasatya/go-user-accounts/internal/interface/http"
	"github.com/oksasatya/go-user-accounts/internal/router/modules"
)

// InitModules wires handlers from c and registers every module with r.
// It should be called once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	userHandler := handlers.NewUserHandler(c.Users, c.Logger, cfg.MaxUploadBytes)

	r.Add(modules.NewUserModule(userHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	r.AddRoot(modules.NewHealthModule(userHandler))
	if cfg.ImageBackend == "local" {
		r.AddRoot(modules.NewStaticModule(cfg.UploadURLPrefix, cfg.UploadDir))
	}
}
