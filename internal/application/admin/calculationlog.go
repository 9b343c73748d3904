package admin

import (
	"context"

	"gorm.io/gorm"

	"sep2utility/internal/domain/calculationlog"
	sep2errors "sep2utility/internal/shared/errors"
)

// CreateCalculationLogUseCase handles POST /admin/calculation-logs.
type CreateCalculationLogUseCase struct{ Deps }

func NewCreateCalculationLogUseCase(d Deps) *CreateCalculationLogUseCase {
	return &CreateCalculationLogUseCase{Deps: d}
}

type CreateCalculationLogCommand struct {
	Description string
	ExternalID  string
}

func (uc *CreateCalculationLogUseCase) Execute(ctx context.Context, cmd CreateCalculationLogCommand) (*calculationlog.CalculationLog, error) {
	return calculationlog.Create(ctx, uc.DB, cmd.Description, cmd.ExternalID, now())
}

// GetCalculationLogUseCase handles GET /admin/calculation-logs/{id}.
type GetCalculationLogUseCase struct{ Deps }

func NewGetCalculationLogUseCase(d Deps) *GetCalculationLogUseCase {
	return &GetCalculationLogUseCase{Deps: d}
}

func (uc *GetCalculationLogUseCase) Execute(ctx context.Context, id uint32) (*calculationlog.CalculationLog, error) {
	l, err := calculationlog.Get(ctx, uc.DB, id)
	if err == gorm.ErrRecordNotFound {
		return nil, sep2errors.NewNotFoundError("CalculationLog not found")
	}
	return l, err
}

// ListCalculationLogsUseCase handles GET /admin/calculation-logs.
type ListCalculationLogsUseCase struct{ Deps }

func NewListCalculationLogsUseCase(d Deps) *ListCalculationLogsUseCase {
	return &ListCalculationLogsUseCase{Deps: d}
}

func (uc *ListCalculationLogsUseCase) Execute(ctx context.Context, start, limit int) ([]calculationlog.CalculationLog, error) {
	return calculationlog.List(ctx, uc.DB, start, limit)
}
