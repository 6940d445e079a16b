package container

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/config"
	"github.com/oksasatya/go-user-accounts/internal/application"
)

// Container bundles the components built in main and handed to the router.
// Resources registered with OnClose are released in reverse order by Close.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Users  *application.Service

	closers []func() error
}

func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{Config: cfg, Logger: logger}
}

func (c *Container) OnClose(fn func() error) {
	c.closers = append(c.closers, fn)
}

func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
