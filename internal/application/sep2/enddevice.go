package sep2

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sep2utility/internal/domain/scope"
	"sep2utility/internal/domain/site"
	"sep2utility/internal/interfaces/dto"
	sep2errors "sep2utility/internal/shared/errors"
)

// RegisterEndDeviceUseCase handles POST /edev: a device or aggregator certificate
// provisioning a new Site.
type RegisterEndDeviceUseCase struct {
	Deps
	PINGen site.PINGenerator
}

func NewRegisterEndDeviceUseCase(d Deps, pinGen site.PINGenerator) *RegisterEndDeviceUseCase {
	return &RegisterEndDeviceUseCase{Deps: d, PINGen: pinGen}
}

type RegisterEndDeviceCommand struct {
	Scope   scope.UnregisteredRequestScope
	Request dto.EndDeviceRequest
}

func (uc *RegisterEndDeviceUseCase) Execute(ctx context.Context, cmd RegisterEndDeviceCommand) (*dto.EndDevice, error) {
	pin, err := uc.PINGen.GeneratePIN()
	if err != nil {
		return nil, fmt.Errorf("failed to generate registration pin: %w", err)
	}

	s := dto.MapEndDeviceFromRequest(cmd.Request, cmd.Scope.AggregatorID, uc.Config.DefaultTimezone, pin, now())
	if err := site.RegisterSite(ctx, uc.DB, &s); err != nil {
		return nil, err
	}

	resp := dto.MapEndDeviceToResponse(s, uc.HrefBuilder())
	return &resp, nil
}

// GetEndDeviceUseCase handles GET /edev/{site_id}.
type GetEndDeviceUseCase struct{ Deps }

func NewGetEndDeviceUseCase(d Deps) *GetEndDeviceUseCase { return &GetEndDeviceUseCase{Deps: d} }

func (uc *GetEndDeviceUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) (*dto.EndDevice, error) {
	row, err := uc.selectSite(ctx, s)
	if err != nil {
		return nil, err
	}
	resp := dto.MapEndDeviceToResponse(*row, uc.HrefBuilder())
	return &resp, nil
}

func (uc *GetEndDeviceUseCase) selectSite(ctx context.Context, s scope.SiteRequestScope) (*site.Site, error) {
	var row site.Site
	err := uc.DB.WithContext(ctx).
		Where("site_id = ? AND aggregator_id = ?", s.SiteID, s.AggregatorID).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, sep2errors.NewNotFoundError("EndDevice not found")
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListEndDevicesUseCase handles GET /edev for an aggregator certificate.
type ListEndDevicesUseCase struct{ Deps }

func NewListEndDevicesUseCase(d Deps) *ListEndDevicesUseCase { return &ListEndDevicesUseCase{Deps: d} }

type ListEndDevicesQuery struct {
	Scope scope.UnregisteredRequestScope
	Query dto.ListQuery
}

func (uc *ListEndDevicesUseCase) Execute(ctx context.Context, q ListEndDevicesQuery) (*dto.EndDeviceList, error) {
	limit := int(q.Query.Limit)
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	sites, err := site.EnumerateSites(ctx, uc.DB, q.Scope.AggregatorID, int(q.Query.Start), limit)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := uc.DB.WithContext(ctx).Model(&site.Site{}).
		Where("aggregator_id = ?", q.Scope.AggregatorID).Count(&total).Error; err != nil {
		return nil, err
	}

	resp := dto.MapEndDeviceListToResponse(sites, uint32(total), uc.HrefBuilder())
	return &resp, nil
}

// DeleteEndDeviceUseCase handles DELETE /edev/{site_id}.
type DeleteEndDeviceUseCase struct{ Deps }

func NewDeleteEndDeviceUseCase(d Deps) *DeleteEndDeviceUseCase { return &DeleteEndDeviceUseCase{Deps: d} }

func (uc *DeleteEndDeviceUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) error {
	get := &GetEndDeviceUseCase{Deps: uc.Deps}
	if _, err := get.selectSite(ctx, s); err != nil {
		return err
	}
	return site.DeleteSite(ctx, uc.DB, uint32(s.SiteID), now())
}

// GetRegistrationUseCase handles GET /edev/{site_id}/reg - the registration PIN a client
// must present out-of-band to complete pairing.
type GetRegistrationUseCase struct{ Deps }

func NewGetRegistrationUseCase(d Deps) *GetRegistrationUseCase { return &GetRegistrationUseCase{Deps: d} }

func (uc *GetRegistrationUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) (*dto.Registration, error) {
	get := &GetEndDeviceUseCase{Deps: uc.Deps}
	row, err := get.selectSite(ctx, s)
	if err != nil {
		return nil, err
	}
	resp := dto.MapRegistrationToResponse(*row, uc.Config.PollRateSeconds, uc.HrefBuilder())
	return &resp, nil
}

// GetConnectionPointUseCase handles GET /edev/{site_id}/cp.
type GetConnectionPointUseCase struct{ Deps }

func NewGetConnectionPointUseCase(d Deps) *GetConnectionPointUseCase {
	return &GetConnectionPointUseCase{Deps: d}
}

func (uc *GetConnectionPointUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) (*dto.ConnectionPoint, error) {
	get := &GetEndDeviceUseCase{Deps: uc.Deps}
	row, err := get.selectSite(ctx, s)
	if err != nil {
		return nil, err
	}
	resp := dto.MapConnectionPointToResponse(*row, uc.HrefBuilder())
	return &resp, nil
}

// PutConnectionPointUseCase handles PUT /edev/{site_id}/cp - updating the site's NMI.
type PutConnectionPointUseCase struct{ Deps }

func NewPutConnectionPointUseCase(d Deps) *PutConnectionPointUseCase {
	return &PutConnectionPointUseCase{Deps: d}
}

func (uc *PutConnectionPointUseCase) Execute(ctx context.Context, s scope.SiteRequestScope, req dto.ConnectionPointRequest) error {
	get := &GetEndDeviceUseCase{Deps: uc.Deps}
	row, err := get.selectSite(ctx, s)
	if err != nil {
		return err
	}
	row.NMI = &req.ID
	row.ChangedTime = now()
	return uc.DB.WithContext(ctx).Save(row).Error
}
