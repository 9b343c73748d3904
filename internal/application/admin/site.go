package admin

import (
	"context"

	"gorm.io/gorm"

	"sep2utility/internal/domain/site"
	sep2errors "sep2utility/internal/shared/errors"
)

// GetSiteUseCase handles GET /admin/sites/{id}, unscoped by aggregator.
type GetSiteUseCase struct{ Deps }

func NewGetSiteUseCase(d Deps) *GetSiteUseCase { return &GetSiteUseCase{Deps: d} }

func (uc *GetSiteUseCase) Execute(ctx context.Context, siteID uint32) (*site.Site, error) {
	s, err := site.GetSite(ctx, uc.DB, siteID)
	if err == gorm.ErrRecordNotFound {
		return nil, sep2errors.NewNotFoundError("Site not found")
	}
	return s, err
}

// ListSitesUseCase handles GET /admin/sites.
type ListSitesUseCase struct{ Deps }

func NewListSitesUseCase(d Deps) *ListSitesUseCase { return &ListSitesUseCase{Deps: d} }

func (uc *ListSitesUseCase) Execute(ctx context.Context, start, limit int) ([]site.Site, error) {
	return site.EnumerateAllSites(ctx, uc.DB, start, limit)
}

// UpdateSiteUseCase handles PUT /admin/sites/{id}.
type UpdateSiteUseCase struct{ Deps }

func NewUpdateSiteUseCase(d Deps) *UpdateSiteUseCase { return &UpdateSiteUseCase{Deps: d} }

type UpdateSiteCommand struct {
	SiteID         uint32
	NMI            *string
	TimezoneID     string
	DeviceCategory site.DeviceCategory
}

func (uc *UpdateSiteUseCase) Execute(ctx context.Context, cmd UpdateSiteCommand) error {
	err := site.UpdateSite(ctx, uc.DB, cmd.SiteID, cmd.NMI, cmd.TimezoneID, cmd.DeviceCategory, now())
	if err == gorm.ErrRecordNotFound {
		return sep2errors.NewNotFoundError("Site not found")
	}
	return err
}

// DeleteSiteUseCase handles DELETE /admin/sites/{id}.
type DeleteSiteUseCase struct{ Deps }

func NewDeleteSiteUseCase(d Deps) *DeleteSiteUseCase { return &DeleteSiteUseCase{Deps: d} }

func (uc *DeleteSiteUseCase) Execute(ctx context.Context, siteID uint32) error {
	if _, err := site.GetSite(ctx, uc.DB, siteID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return sep2errors.NewNotFoundError("Site not found")
		}
		return err
	}
	return site.DeleteSite(ctx, uc.DB, siteID, now())
}
