package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/boardmate/boardmate/internal/repository"
)

// DemoService exposes the factory reset: wipe every store and the session
// slot, leaving an empty but fully usable database behind.
type DemoService struct {
	resetter repository.Resetter
	logger   *slog.Logger
}

func NewDemoService(resetter repository.Resetter, logger *slog.Logger) *DemoService {
	return &DemoService{resetter: resetter, logger: logger}
}

func (s *DemoService) Reset(ctx context.Context) error {
	if err := s.resetter.ResetAll(ctx); err != nil {
		return fmt.Errorf("service/demo: reset: %w", err)
	}
	s.logger.Info("demo data reset")
	return nil
}
