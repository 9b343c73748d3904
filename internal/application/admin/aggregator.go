package admin

import (
	"context"
	"time"

	"sep2utility/internal/domain/aggregator"
	sep2errors "sep2utility/internal/shared/errors"

	"gorm.io/gorm"
)

// CreateAggregatorUseCase handles POST /admin/aggregators.
type CreateAggregatorUseCase struct{ Deps }

func NewCreateAggregatorUseCase(d Deps) *CreateAggregatorUseCase { return &CreateAggregatorUseCase{Deps: d} }

type CreateAggregatorCommand struct{ Name string }

func (uc *CreateAggregatorUseCase) Execute(ctx context.Context, cmd CreateAggregatorCommand) (*aggregator.Aggregator, error) {
	if cmd.Name == "" {
		return nil, sep2errors.NewBadRequestError("name is required")
	}
	return aggregator.CreateAggregator(ctx, uc.DB, cmd.Name, now())
}

// GetAggregatorUseCase handles GET /admin/aggregators/{id}.
type GetAggregatorUseCase struct{ Deps }

func NewGetAggregatorUseCase(d Deps) *GetAggregatorUseCase { return &GetAggregatorUseCase{Deps: d} }

func (uc *GetAggregatorUseCase) Execute(ctx context.Context, aggregatorID uint32) (*aggregator.Aggregator, error) {
	a, err := aggregator.GetAggregator(ctx, uc.DB, aggregatorID)
	if err == gorm.ErrRecordNotFound {
		return nil, sep2errors.NewNotFoundError("Aggregator not found")
	}
	return a, err
}

// ListAggregatorsUseCase handles GET /admin/aggregators.
type ListAggregatorsUseCase struct{ Deps }

func NewListAggregatorsUseCase(d Deps) *ListAggregatorsUseCase { return &ListAggregatorsUseCase{Deps: d} }

func (uc *ListAggregatorsUseCase) Execute(ctx context.Context, start, limit int) ([]aggregator.Aggregator, error) {
	return aggregator.ListAggregators(ctx, uc.DB, start, limit)
}

// UpdateAggregatorUseCase handles PUT /admin/aggregators/{id}.
type UpdateAggregatorUseCase struct{ Deps }

func NewUpdateAggregatorUseCase(d Deps) *UpdateAggregatorUseCase { return &UpdateAggregatorUseCase{Deps: d} }

type UpdateAggregatorCommand struct {
	AggregatorID uint32
	Name         string
}

func (uc *UpdateAggregatorUseCase) Execute(ctx context.Context, cmd UpdateAggregatorCommand) error {
	err := aggregator.UpdateAggregator(ctx, uc.DB, cmd.AggregatorID, cmd.Name, now())
	if err == gorm.ErrRecordNotFound {
		return sep2errors.NewNotFoundError("Aggregator not found")
	}
	return err
}

// DeleteAggregatorUseCase handles DELETE /admin/aggregators/{id}.
type DeleteAggregatorUseCase struct{ Deps }

func NewDeleteAggregatorUseCase(d Deps) *DeleteAggregatorUseCase { return &DeleteAggregatorUseCase{Deps: d} }

func (uc *DeleteAggregatorUseCase) Execute(ctx context.Context, aggregatorID uint32) error {
	err := aggregator.DeleteAggregator(ctx, uc.DB, aggregatorID, now())
	if err == gorm.ErrRecordNotFound {
		return sep2errors.NewNotFoundError("Aggregator not found")
	}
	return err
}

// AddAggregatorDomainUseCase handles POST /admin/aggregators/{id}/domains.
type AddAggregatorDomainUseCase struct{ Deps }

func NewAddAggregatorDomainUseCase(d Deps) *AddAggregatorDomainUseCase {
	return &AddAggregatorDomainUseCase{Deps: d}
}

type AddAggregatorDomainCommand struct {
	AggregatorID uint32
	Domain       string
}

func (uc *AddAggregatorDomainUseCase) Execute(ctx context.Context, cmd AddAggregatorDomainCommand) error {
	if cmd.Domain == "" {
		return sep2errors.NewBadRequestError("domain is required")
	}
	return aggregator.AddDomain(ctx, uc.DB, cmd.AggregatorID, cmd.Domain, now())
}

// CreateCertificateUseCase handles POST /admin/certificates.
type CreateCertificateUseCase struct{ Deps }

func NewCreateCertificateUseCase(d Deps) *CreateCertificateUseCase {
	return &CreateCertificateUseCase{Deps: d}
}

type CreateCertificateCommand struct {
	LFDI   string
	SFDI   uint64
	Expiry time.Time
}

func (uc *CreateCertificateUseCase) Execute(ctx context.Context, cmd CreateCertificateCommand) (*aggregator.Certificate, error) {
	if cmd.LFDI == "" {
		return nil, sep2errors.NewBadRequestError("lfdi is required")
	}
	return aggregator.CreateCertificate(ctx, uc.DB, cmd.LFDI, cmd.SFDI, cmd.Expiry)
}

// ListCertificatesUseCase handles GET /admin/certificates.
type ListCertificatesUseCase struct{ Deps }

func NewListCertificatesUseCase(d Deps) *ListCertificatesUseCase { return &ListCertificatesUseCase{Deps: d} }

func (uc *ListCertificatesUseCase) Execute(ctx context.Context, start, limit int) ([]aggregator.Certificate, error) {
	return aggregator.ListCertificates(ctx, uc.DB, start, limit)
}

// UpdateCertificateExpiryUseCase handles PUT /admin/certificates/{id}/expiry.
type UpdateCertificateExpiryUseCase struct{ Deps }

func NewUpdateCertificateExpiryUseCase(d Deps) *UpdateCertificateExpiryUseCase {
	return &UpdateCertificateExpiryUseCase{Deps: d}
}

type UpdateCertificateExpiryCommand struct {
	CertificateID uint32
	Expiry        time.Time
}

func (uc *UpdateCertificateExpiryUseCase) Execute(ctx context.Context, cmd UpdateCertificateExpiryCommand) error {
	err := aggregator.UpdateCertificateExpiry(ctx, uc.DB, cmd.CertificateID, cmd.Expiry)
	if err == gorm.ErrRecordNotFound {
		return sep2errors.NewNotFoundError("Certificate not found")
	}
	return err
}

// DeleteCertificateUseCase handles DELETE /admin/certificates/{id}.
type DeleteCertificateUseCase struct{ Deps }

func NewDeleteCertificateUseCase(d Deps) *DeleteCertificateUseCase { return &DeleteCertificateUseCase{Deps: d} }

func (uc *DeleteCertificateUseCase) Execute(ctx context.Context, certificateID uint32) error {
	return aggregator.DeleteCertificate(ctx, uc.DB, certificateID)
}

// AssignCertificateUseCase handles POST /admin/certificates/{id}/assignments.
type AssignCertificateUseCase struct{ Deps }

func NewAssignCertificateUseCase(d Deps) *AssignCertificateUseCase { return &AssignCertificateUseCase{Deps: d} }

type AssignCertificateCommand struct {
	CertificateID uint32
	AggregatorID  uint32
}

func (uc *AssignCertificateUseCase) Execute(ctx context.Context, cmd AssignCertificateCommand) error {
	return aggregator.AssignCertificate(ctx, uc.DB, cmd.CertificateID, cmd.AggregatorID)
}
