package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/domain/sitecontrol"
	sep2errors "sep2utility/internal/shared/errors"
)

// CreateSiteControlGroupUseCase handles POST /admin/site-control-groups.
type CreateSiteControlGroupUseCase struct{ Deps }

func NewCreateSiteControlGroupUseCase(d Deps) *CreateSiteControlGroupUseCase {
	return &CreateSiteControlGroupUseCase{Deps: d}
}

type CreateSiteControlGroupCommand struct {
	Description string
	Primacy     uint32
	FsaID       uint32
}

func (uc *CreateSiteControlGroupUseCase) Execute(ctx context.Context, cmd CreateSiteControlGroupCommand) (*sitecontrol.SiteControlGroup, error) {
	return sitecontrol.CreateSiteControlGroup(ctx, uc.DB, cmd.Description, cmd.Primacy, cmd.FsaID, now())
}

// GetSiteControlGroupUseCase handles GET /admin/site-control-groups/{id}.
type GetSiteControlGroupUseCase struct{ Deps }

func NewGetSiteControlGroupUseCase(d Deps) *GetSiteControlGroupUseCase {
	return &GetSiteControlGroupUseCase{Deps: d}
}

func (uc *GetSiteControlGroupUseCase) Execute(ctx context.Context, groupID uint32) (*sitecontrol.SiteControlGroup, error) {
	g, err := sitecontrol.GetSiteControlGroup(ctx, uc.DB, groupID)
	if err == gorm.ErrRecordNotFound {
		return nil, sep2errors.NewNotFoundError("SiteControlGroup not found")
	}
	return g, err
}

// ListSiteControlGroupsUseCase handles GET /admin/site-control-groups.
type ListSiteControlGroupsUseCase struct{ Deps }

func NewListSiteControlGroupsUseCase(d Deps) *ListSiteControlGroupsUseCase {
	return &ListSiteControlGroupsUseCase{Deps: d}
}

func (uc *ListSiteControlGroupsUseCase) Execute(ctx context.Context, start, limit int) ([]sitecontrol.SiteControlGroup, error) {
	return sitecontrol.EnumerateSiteControlGroups(ctx, uc.DB, nil, start, limit)
}

// UpdateSiteControlGroupUseCase handles PUT /admin/site-control-groups/{id}.
type UpdateSiteControlGroupUseCase struct{ Deps }

func NewUpdateSiteControlGroupUseCase(d Deps) *UpdateSiteControlGroupUseCase {
	return &UpdateSiteControlGroupUseCase{Deps: d}
}

type UpdateSiteControlGroupCommand struct {
	GroupID     uint32
	Description string
	Primacy     uint32
	FsaID       uint32
}

func (uc *UpdateSiteControlGroupUseCase) Execute(ctx context.Context, cmd UpdateSiteControlGroupCommand) error {
	err := sitecontrol.UpdateSiteControlGroup(ctx, uc.DB, cmd.GroupID, cmd.Description, cmd.Primacy, cmd.FsaID, now())
	if err == gorm.ErrRecordNotFound {
		return sep2errors.NewNotFoundError("SiteControlGroup not found")
	}
	return err
}

// DeleteSiteControlGroupUseCase handles DELETE /admin/site-control-groups/{id}.
type DeleteSiteControlGroupUseCase struct{ Deps }

func NewDeleteSiteControlGroupUseCase(d Deps) *DeleteSiteControlGroupUseCase {
	return &DeleteSiteControlGroupUseCase{Deps: d}
}

func (uc *DeleteSiteControlGroupUseCase) Execute(ctx context.Context, groupID uint32) error {
	err := sitecontrol.DeleteSiteControlGroup(ctx, uc.DB, groupID, now())
	if err == gorm.ErrRecordNotFound {
		return sep2errors.NewNotFoundError("SiteControlGroup not found")
	}
	return err
}

// UpsertDOEsUseCase handles POST /admin/site-control-groups/{id}/does: bulk upsert of
// DynamicOperatingEnvelope rows, cancel-then-insert (default) or supersede-then-insert (when
// a primacy lookup is supplied) per spec.md §4.4.
type UpsertDOEsUseCase struct{ Deps }

func NewUpsertDOEsUseCase(d Deps) *UpsertDOEsUseCase { return &UpsertDOEsUseCase{Deps: d} }

type UpsertDOEsCommand struct {
	DOEs             []sitecontrol.DynamicOperatingEnvelope
	PrimacyByGroupID map[uint32]uint32 // nil => cancel-then-insert, non-nil => supersede-then-insert
}

func (uc *UpsertDOEsUseCase) Execute(ctx context.Context, cmd UpsertDOEsCommand) error {
	if cmd.PrimacyByGroupID != nil {
		return sitecontrol.SupersedeThenInsertDOEs(ctx, uc.DB, cmd.DOEs, sitecontrol.MapPrimacyLookup(cmd.PrimacyByGroupID), now())
	}
	return sitecontrol.CancelThenInsertDOEs(ctx, uc.DB, cmd.DOEs, now())
}

// DeleteDOERangeUseCase handles DELETE /admin/site-control-groups/{id}/does: range-delete by
// start-time window, per spec.md §6.2 "DOEs (bulk upsert + range delete)".
type DeleteDOERangeUseCase struct{ Deps }

func NewDeleteDOERangeUseCase(d Deps) *DeleteDOERangeUseCase { return &DeleteDOERangeUseCase{Deps: d} }

type DeleteDOERangeCommand struct {
	GroupID     uint32
	SiteID      *uint32
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (uc *DeleteDOERangeUseCase) Execute(ctx context.Context, cmd DeleteDOERangeCommand) error {
	return sitecontrol.DeleteDOEsWithStartTimeInRange(ctx, uc.DB, cmd.GroupID, cmd.SiteID, cmd.PeriodStart, cmd.PeriodEnd, now())
}

// UpsertSiteControlGroupDefaultUseCase handles PUT /admin/site-control-groups/{id}/default.
type UpsertSiteControlGroupDefaultUseCase struct{ Deps }

func NewUpsertSiteControlGroupDefaultUseCase(d Deps) *UpsertSiteControlGroupDefaultUseCase {
	return &UpsertSiteControlGroupDefaultUseCase{Deps: d}
}

func (uc *UpsertSiteControlGroupDefaultUseCase) Execute(ctx context.Context, d sitecontrol.SiteControlGroupDefault) error {
	return sitecontrol.UpsertSiteControlGroupDefault(ctx, uc.DB, d, now())
}

// UpsertDefaultSiteControlUseCase handles PUT /admin/sites/{id}/site-control-groups/{gid}/default.
type UpsertDefaultSiteControlUseCase struct{ Deps }

func NewUpsertDefaultSiteControlUseCase(d Deps) *UpsertDefaultSiteControlUseCase {
	return &UpsertDefaultSiteControlUseCase{Deps: d}
}

func (uc *UpsertDefaultSiteControlUseCase) Execute(ctx context.Context, d sitecontrol.DefaultSiteControl) error {
	return sitecontrol.UpsertDefaultSiteControl(ctx, uc.DB, d, now())
}
