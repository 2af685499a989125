package transcribe

import (
	"context"
	"fmt"

	"github.com/zillusion/capsule/component"
)

var _ component.Component = (*Service)(nil)

func (s *Service) Name() string { return "transcribe" }

func (s *Service) Start(context.Context) error { return nil }

// Stop waits for in-flight analyses until ctx ends.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for analyses: %w", err)
	}
	return nil
}

func (s *Service) Health(context.Context) component.Health {
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}
