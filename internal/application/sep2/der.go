package sep2

import (
	"context"

	"sep2utility/internal/domain/scope"
	"sep2utility/internal/domain/site"
	"sep2utility/internal/interfaces/dto"
)

// siteDER resolves (and lazily creates) the SiteDER container for a scoped site, the way
// original_source's DER mapper always assumes exactly one DER per EndDevice.
func (d Deps) siteDER(ctx context.Context, siteID uint32) (*site.SiteDER, error) {
	return site.GetOrCreateSiteDER(ctx, d.DB, siteID, now())
}

// GetDERUseCase handles GET /edev/{site_id}/der - the DER container resource.
type GetDERUseCase struct{ Deps }

func NewGetDERUseCase(d Deps) *GetDERUseCase { return &GetDERUseCase{Deps: d} }

func (uc *GetDERUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) (*dto.DER, error) {
	if _, err := uc.siteDER(ctx, uint32(s.SiteID)); err != nil {
		return nil, err
	}
	resp := dto.MapDERToResponse(uint32(s.SiteID), uc.HrefBuilder())
	return &resp, nil
}

// GetDERCapabilityUseCase handles GET /edev/{site_id}/der/dercap.
type GetDERCapabilityUseCase struct{ Deps }

func NewGetDERCapabilityUseCase(d Deps) *GetDERCapabilityUseCase {
	return &GetDERCapabilityUseCase{Deps: d}
}

func (uc *GetDERCapabilityUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) (*dto.DERCapability, error) {
	der, err := uc.siteDER(ctx, uint32(s.SiteID))
	if err != nil {
		return nil, err
	}
	var rating site.SiteDERRating
	if err := uc.DB.WithContext(ctx).Where("site_der_id = ?", der.SiteDERID).First(&rating).Error; err != nil {
		return nil, err
	}
	resp := dto.MapDERCapabilityToResponse(uint32(s.SiteID), rating, uc.HrefBuilder())
	return &resp, nil
}

// PutDERCapabilityUseCase handles PUT /edev/{site_id}/der/dercap.
type PutDERCapabilityUseCase struct{ Deps }

func NewPutDERCapabilityUseCase(d Deps) *PutDERCapabilityUseCase {
	return &PutDERCapabilityUseCase{Deps: d}
}

func (uc *PutDERCapabilityUseCase) Execute(ctx context.Context, s scope.SiteRequestScope, req dto.DERCapabilityRequest) error {
	der, err := uc.siteDER(ctx, uint32(s.SiteID))
	if err != nil {
		return err
	}
	rating := dto.MapDERCapabilityFromRequest(req)
	return site.UpsertSiteDERRating(ctx, uc.DB, der.SiteDERID, rating, now())
}

// GetDERSettingsUseCase handles GET /edev/{site_id}/der/derg.
type GetDERSettingsUseCase struct{ Deps }

func NewGetDERSettingsUseCase(d Deps) *GetDERSettingsUseCase {
	return &GetDERSettingsUseCase{Deps: d}
}

func (uc *GetDERSettingsUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) (*dto.DERSettings, error) {
	der, err := uc.siteDER(ctx, uint32(s.SiteID))
	if err != nil {
		return nil, err
	}
	var setting site.SiteDERSetting
	if err := uc.DB.WithContext(ctx).Where("site_der_id = ?", der.SiteDERID).First(&setting).Error; err != nil {
		return nil, err
	}
	resp := dto.MapDERSettingsToResponse(uint32(s.SiteID), setting, uc.HrefBuilder())
	return &resp, nil
}

// PutDERSettingsUseCase handles PUT /edev/{site_id}/der/derg.
type PutDERSettingsUseCase struct{ Deps }

func NewPutDERSettingsUseCase(d Deps) *PutDERSettingsUseCase {
	return &PutDERSettingsUseCase{Deps: d}
}

func (uc *PutDERSettingsUseCase) Execute(ctx context.Context, s scope.SiteRequestScope, req dto.DERSettingsRequest) error {
	der, err := uc.siteDER(ctx, uint32(s.SiteID))
	if err != nil {
		return err
	}
	setting := dto.MapDERSettingsFromRequest(req)
	return site.UpsertSiteDERSetting(ctx, uc.DB, der.SiteDERID, setting, now())
}

// GetDERAvailabilityUseCase handles GET /edev/{site_id}/der/dera.
type GetDERAvailabilityUseCase struct{ Deps }

func NewGetDERAvailabilityUseCase(d Deps) *GetDERAvailabilityUseCase {
	return &GetDERAvailabilityUseCase{Deps: d}
}

func (uc *GetDERAvailabilityUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) (*dto.DERAvailability, error) {
	der, err := uc.siteDER(ctx, uint32(s.SiteID))
	if err != nil {
		return nil, err
	}
	var avail site.SiteDERAvailability
	if err := uc.DB.WithContext(ctx).Where("site_der_id = ?", der.SiteDERID).First(&avail).Error; err != nil {
		return nil, err
	}
	resp := dto.MapDERAvailabilityToResponse(uint32(s.SiteID), avail, uc.HrefBuilder())
	return &resp, nil
}

// PutDERAvailabilityUseCase handles PUT /edev/{site_id}/der/dera.
type PutDERAvailabilityUseCase struct{ Deps }

func NewPutDERAvailabilityUseCase(d Deps) *PutDERAvailabilityUseCase {
	return &PutDERAvailabilityUseCase{Deps: d}
}

func (uc *PutDERAvailabilityUseCase) Execute(ctx context.Context, s scope.SiteRequestScope, req dto.DERAvailabilityRequest) error {
	der, err := uc.siteDER(ctx, uint32(s.SiteID))
	if err != nil {
		return err
	}
	avail := dto.MapDERAvailabilityFromRequest(req)
	return site.UpsertSiteDERAvailability(ctx, uc.DB, der.SiteDERID, avail, now())
}

// GetDERStatusUseCase handles GET /edev/{site_id}/der/ders.
type GetDERStatusUseCase struct{ Deps }

func NewGetDERStatusUseCase(d Deps) *GetDERStatusUseCase { return &GetDERStatusUseCase{Deps: d} }

func (uc *GetDERStatusUseCase) Execute(ctx context.Context, s scope.SiteRequestScope) (*dto.DERStatus, error) {
	der, err := uc.siteDER(ctx, uint32(s.SiteID))
	if err != nil {
		return nil, err
	}
	var status site.SiteDERStatus
	if err := uc.DB.WithContext(ctx).Where("site_der_id = ?", der.SiteDERID).First(&status).Error; err != nil {
		return nil, err
	}
	resp := dto.MapDERStatusToResponse(uint32(s.SiteID), status, uc.HrefBuilder())
	return &resp, nil
}

// PutDERStatusUseCase handles PUT /edev/{site_id}/der/ders.
type PutDERStatusUseCase struct{ Deps }

func NewPutDERStatusUseCase(d Deps) *PutDERStatusUseCase { return &PutDERStatusUseCase{Deps: d} }

func (uc *PutDERStatusUseCase) Execute(ctx context.Context, s scope.SiteRequestScope, req dto.DERStatusRequest) error {
	der, err := uc.siteDER(ctx, uint32(s.SiteID))
	if err != nil {
		return err
	}
	status := dto.MapDERStatusFromRequest(req)
	return site.UpsertSiteDERStatus(ctx, uc.DB, der.SiteDERID, status, now())
}
