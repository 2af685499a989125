package storage

import (
	"context"
	"fmt"

	"github.com/zillusion/capsule/component"
	"github.com/zillusion/capsule/logger"
)

var _ component.Component = (*Component)(nil)

// Component owns the ObjectStore for the process lifetime.
type Component struct {
	store ObjectStore
	cfg   Config
	log   *logger.Logger
}

// NewComponent creates a storage component for the registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{cfg: cfg, log: log.WithComponent("storage")}
}

// Store returns the ObjectStore, or nil before Start.
func (c *Component) Store() ObjectStore { return c.store }

func (c *Component) Name() string { return "storage" }

func (c *Component) Start(ctx context.Context) error {
	s, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.store = s
	return nil
}

func (c *Component) Stop(context.Context) error { return nil }

func (c *Component) Health(context.Context) component.Health {
	if c.store == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("provider=%s bucket=%s", c.cfg.Provider, c.cfg.Bucket),
	}
}
