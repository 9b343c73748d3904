package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/domain/tariff"
	sep2errors "sep2utility/internal/shared/errors"
)

// CreateTariffUseCase handles POST /admin/tariffs.
type CreateTariffUseCase struct{ Deps }

func NewCreateTariffUseCase(d Deps) *CreateTariffUseCase { return &CreateTariffUseCase{Deps: d} }

type CreateTariffCommand struct {
	Name         string
	DnspCode     string
	CurrencyCode uint32
}

func (uc *CreateTariffUseCase) Execute(ctx context.Context, cmd CreateTariffCommand) (*tariff.Tariff, error) {
	return tariff.CreateTariff(ctx, uc.DB, cmd.Name, cmd.DnspCode, cmd.CurrencyCode, now())
}

// GetTariffUseCase handles GET /admin/tariffs/{id}.
type GetTariffUseCase struct{ Deps }

func NewGetTariffUseCase(d Deps) *GetTariffUseCase { return &GetTariffUseCase{Deps: d} }

func (uc *GetTariffUseCase) Execute(ctx context.Context, tariffID uint32) (*tariff.Tariff, error) {
	t, err := tariff.SelectSingleTariff(ctx, uc.DB, tariffID)
	if err == gorm.ErrRecordNotFound {
		return nil, sep2errors.NewNotFoundError("Tariff not found")
	}
	return t, err
}

// ListTariffsUseCase handles GET /admin/tariffs.
type ListTariffsUseCase struct{ Deps }

func NewListTariffsUseCase(d Deps) *ListTariffsUseCase { return &ListTariffsUseCase{Deps: d} }

func (uc *ListTariffsUseCase) Execute(ctx context.Context, start, limit int) ([]tariff.Tariff, error) {
	return tariff.SelectAllTariffs(ctx, uc.DB, start, time.Time{}, limit)
}

// UpdateTariffUseCase handles PUT /admin/tariffs/{id}.
type UpdateTariffUseCase struct{ Deps }

func NewUpdateTariffUseCase(d Deps) *UpdateTariffUseCase { return &UpdateTariffUseCase{Deps: d} }

type UpdateTariffCommand struct {
	TariffID     uint32
	Name         string
	DnspCode     string
	CurrencyCode uint32
}

func (uc *UpdateTariffUseCase) Execute(ctx context.Context, cmd UpdateTariffCommand) error {
	err := tariff.UpdateTariff(ctx, uc.DB, cmd.TariffID, cmd.Name, cmd.DnspCode, cmd.CurrencyCode, now())
	if err == gorm.ErrRecordNotFound {
		return sep2errors.NewNotFoundError("Tariff not found")
	}
	return err
}

// DeleteTariffUseCase handles DELETE /admin/tariffs/{id}.
type DeleteTariffUseCase struct{ Deps }

func NewDeleteTariffUseCase(d Deps) *DeleteTariffUseCase { return &DeleteTariffUseCase{Deps: d} }

func (uc *DeleteTariffUseCase) Execute(ctx context.Context, tariffID uint32) error {
	err := tariff.DeleteTariff(ctx, uc.DB, tariffID, now())
	if err == gorm.ErrRecordNotFound {
		return sep2errors.NewNotFoundError("Tariff not found")
	}
	return err
}

// UpsertGeneratedRatesUseCase handles POST /admin/tariffs/{id}/rates: bulk upsert of
// TariffGeneratedRate rows, the admin surface's "generated rates (bulk upsert)" operation.
type UpsertGeneratedRatesUseCase struct{ Deps }

func NewUpsertGeneratedRatesUseCase(d Deps) *UpsertGeneratedRatesUseCase {
	return &UpsertGeneratedRatesUseCase{Deps: d}
}

func (uc *UpsertGeneratedRatesUseCase) Execute(ctx context.Context, rates []tariff.TariffGeneratedRate) error {
	return tariff.UpsertTariffGeneratedRates(ctx, uc.DB, rates, now())
}
