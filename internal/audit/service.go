// Copyright (c) 2026 Adminkit. All rights reserved.

package audit

import (
	"context"
	"log/slog"
)

// Service exposes the read side of the audit trail.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the audit [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns a filtered page of audit entries and the total match count.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {
	return service.repo.List(context, filter, limit, offset)
}
