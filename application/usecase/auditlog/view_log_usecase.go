package auditlog

import (
	"context"
	"fmt"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
	apperror "github.com/fixora/accounts/pkg/error"
)

type ViewLogUseCase struct {
	repo      outbound.AuditLogRepository
	presenter *Presenter
}

func NewViewLogUseCase(repo outbound.AuditLogRepository, users outbound.UserRepository) inbound.AuditLogUseCase {
	return &ViewLogUseCase{
		repo:      repo,
		presenter: NewPresenter(users),
	}
}

func (uc *ViewLogUseCase) View(ctx context.Context, query inbound.AuditLogQuery) ([]inbound.AuditLogView, error) {
	filter, err := toFilter(query)
	if err != nil {
		return nil, err
	}

	entries, err := uc.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	if len(entries) == 0 {
		return nil, apperror.NewNotFound("no logs found")
	}

	views := make([]inbound.AuditLogView, 0, len(entries))
	for _, entry := range entries {
		view, err := uc.presenter.Present(ctx, entry)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func toFilter(query inbound.AuditLogQuery) (outbound.AuditLogFilter, error) {
	filter := outbound.AuditLogFilter{
		EntityID:  query.EntityID,
		ByUser:    query.ByUser,
		CreatedAt: query.CreatedAt,
	}
	if query.Action != nil {
		action, err := entity.ParseAction(*query.Action)
		if err != nil {
			// An unknown action cannot match any row.
			return filter, apperror.NewNotFound("no logs found")
		}
		filter.Action = &action
	}
	return filter, nil
}
