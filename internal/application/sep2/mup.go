package sep2

import (
	"context"

	"sep2utility/internal/domain/mrid"
	"sep2utility/internal/domain/reading"
	"sep2utility/internal/domain/scope"
	"sep2utility/internal/interfaces/dto"
	sep2errors "sep2utility/internal/shared/errors"
)

// CreateMirrorUsagePointUseCase handles POST /mup: a client declaring a new metering point
// it intends to mirror readings into.
type CreateMirrorUsagePointUseCase struct{ Deps }

func NewCreateMirrorUsagePointUseCase(d Deps) *CreateMirrorUsagePointUseCase {
	return &CreateMirrorUsagePointUseCase{Deps: d}
}

type CreateMirrorUsagePointCommand struct {
	Scope   scope.MUPRequestScope
	SiteID  uint32
	Request dto.MirrorUsagePointRequest
}

func (uc *CreateMirrorUsagePointUseCase) Execute(ctx context.Context, cmd CreateMirrorUsagePointCommand) (*dto.MirrorUsagePoint, error) {
	srt := dto.MapMirrorUsagePointFromRequest(cmd.Request, cmd.Scope.AggregatorID, cmd.SiteID)
	id, err := reading.UpsertSiteReadingTypeForAggregator(ctx, uc.DB, cmd.Scope.AggregatorID, srt)
	if err != nil {
		return nil, err
	}
	srt.SiteReadingTypeID = id

	mridStr, err := mrid.EncodeMirrorUsagePointMRID(cmd.Scope, id)
	if err != nil {
		return nil, err
	}
	resp := dto.MapMirrorUsagePointToResponse(srt, mridStr, uc.HrefBuilder())
	return &resp, nil
}

// PutMirrorUsagePointUseCase handles PUT /mup/{mup_id}: the domain's upsert is keyed by the
// full (aggregator, site, reading type) tuple rather than the mup_id itself, so re-declaring
// the same tuple under its own id is the idempotent update this endpoint needs.
type PutMirrorUsagePointUseCase struct{ Deps }

func NewPutMirrorUsagePointUseCase(d Deps) *PutMirrorUsagePointUseCase {
	return &PutMirrorUsagePointUseCase{Deps: d}
}

type PutMirrorUsagePointCommand struct {
	Scope             scope.MUPListRequestScope
	SiteReadingTypeID uint64
	SiteID            *uint32
	Request           dto.MirrorUsagePointRequest
}

func (uc *PutMirrorUsagePointUseCase) Execute(ctx context.Context, cmd PutMirrorUsagePointCommand) error {
	if _, err := reading.FetchSiteReadingTypeForAggregator(ctx, uc.DB, cmd.Scope.AggregatorID, cmd.SiteReadingTypeID, cmd.SiteID); err != nil {
		return sep2errors.NewNotFoundError("MirrorUsagePoint not found")
	}
	siteID := uint32(0)
	if cmd.SiteID != nil {
		siteID = *cmd.SiteID
	}
	srt := dto.MapMirrorUsagePointFromRequest(cmd.Request, cmd.Scope.AggregatorID, siteID)
	srt.SiteReadingTypeID = cmd.SiteReadingTypeID
	_, err := reading.UpsertSiteReadingTypeForAggregator(ctx, uc.DB, cmd.Scope.AggregatorID, srt)
	return err
}

// ListMirrorUsagePointsUseCase handles GET /mup, the one resource both registered and
// unregistered device certificates (and aggregator certificates) may list.
type ListMirrorUsagePointsUseCase struct{ Deps }

func NewListMirrorUsagePointsUseCase(d Deps) *ListMirrorUsagePointsUseCase {
	return &ListMirrorUsagePointsUseCase{Deps: d}
}

type ListMirrorUsagePointsQuery struct {
	Scope  scope.MUPListRequestScope
	SiteID *uint32
	Query  dto.ListQuery
}

func (uc *ListMirrorUsagePointsUseCase) Execute(ctx context.Context, q ListMirrorUsagePointsQuery) (*dto.MirrorUsagePointList, error) {
	limit := int(q.Query.Limit)
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	srts, err := reading.FetchSiteReadingTypesPageForAggregator(ctx, uc.DB, q.Scope.AggregatorID, q.SiteID, int(q.Query.Start), limit, zeroTime())
	if err != nil {
		return nil, err
	}
	total, err := reading.CountSiteReadingTypesForAggregator(ctx, uc.DB, q.Scope.AggregatorID, q.SiteID, zeroTime())
	if err != nil {
		return nil, err
	}

	b := uc.HrefBuilder()
	items := make([]dto.MirrorUsagePoint, 0, len(srts))
	for _, srt := range srts {
		mridStr, err := mrid.EncodeMirrorUsagePointMRID(q.Scope, srt.SiteReadingTypeID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.MapMirrorUsagePointToResponse(srt, mridStr, b))
	}

	return &dto.MirrorUsagePointList{
		Xmlns:             dto.Namespace,
		ListResponse:      dto.ListResponse{All: uint32(total), Results: uint32(len(items))},
		MirrorUsagePoints: items,
	}, nil
}

// GetMirrorUsagePointUseCase handles GET /mup/{mup_id} - the MirrorUsagePoint resource
// itself, as distinct from its MirrorMeterReading child.
type GetMirrorUsagePointUseCase struct{ Deps }

func NewGetMirrorUsagePointUseCase(d Deps) *GetMirrorUsagePointUseCase {
	return &GetMirrorUsagePointUseCase{Deps: d}
}

type GetMirrorUsagePointQuery struct {
	Scope             scope.MUPListRequestScope
	SiteReadingTypeID uint64
	SiteID            *uint32
}

func (uc *GetMirrorUsagePointUseCase) Execute(ctx context.Context, q GetMirrorUsagePointQuery) (*dto.MirrorUsagePoint, error) {
	srt, err := reading.FetchSiteReadingTypeForAggregator(ctx, uc.DB, q.Scope.AggregatorID, q.SiteReadingTypeID, q.SiteID)
	if err != nil {
		return nil, sep2errors.NewNotFoundError("MirrorUsagePoint not found")
	}
	mridStr, err := mrid.EncodeMirrorUsagePointMRID(q.Scope, srt.SiteReadingTypeID)
	if err != nil {
		return nil, err
	}
	resp := dto.MapMirrorUsagePointToResponse(*srt, mridStr, uc.HrefBuilder())
	return &resp, nil
}

// GetMirrorMeterReadingUseCase handles GET /mup/{mup_id}/mr.
type GetMirrorMeterReadingUseCase struct{ Deps }

func NewGetMirrorMeterReadingUseCase(d Deps) *GetMirrorMeterReadingUseCase {
	return &GetMirrorMeterReadingUseCase{Deps: d}
}

type GetMirrorMeterReadingQuery struct {
	Scope             scope.MUPListRequestScope
	SiteReadingTypeID uint64
	SiteID            *uint32
}

func (uc *GetMirrorMeterReadingUseCase) Execute(ctx context.Context, q GetMirrorMeterReadingQuery) (*dto.MirrorMeterReading, error) {
	srt, err := reading.FetchSiteReadingTypeForAggregator(ctx, uc.DB, q.Scope.AggregatorID, q.SiteReadingTypeID, q.SiteID)
	if err != nil {
		return nil, sep2errors.NewNotFoundError("MirrorMeterReading not found")
	}

	var readings []reading.SiteReading
	if err := uc.DB.WithContext(ctx).
		Where("site_reading_type_id = ?", srt.SiteReadingTypeID).
		Order("time_period_start DESC").
		Limit(dto.DefaultListLimit).
		Find(&readings).Error; err != nil {
		return nil, err
	}

	resp := dto.MapMirrorMeterReadingToResponse(*srt, readings, uc.HrefBuilder())
	return &resp, nil
}

// UploadReadingsUseCase handles POST /mup/{mup_id}: a client batch-uploading Reading values
// against a MirrorUsagePoint it previously created.
type UploadReadingsUseCase struct{ Deps }

func NewUploadReadingsUseCase(d Deps) *UploadReadingsUseCase {
	return &UploadReadingsUseCase{Deps: d}
}

type UploadReadingsCommand struct {
	Scope             scope.MUPListRequestScope
	SiteReadingTypeID uint64
	SiteID            *uint32
	Request           dto.MirrorUsagePointRequest
}

func (uc *UploadReadingsUseCase) Execute(ctx context.Context, cmd UploadReadingsCommand) error {
	if _, err := reading.FetchSiteReadingTypeForAggregator(ctx, uc.DB, cmd.Scope.AggregatorID, cmd.SiteReadingTypeID, cmd.SiteID); err != nil {
		return sep2errors.NewNotFoundError("MirrorUsagePoint not found")
	}
	readings := dto.MapReadingsFromRequest(cmd.Request, cmd.SiteReadingTypeID)
	return reading.UpsertSiteReadings(ctx, uc.DB, now(), readings)
}

// DeleteMirrorUsagePointUseCase handles DELETE /mup/{mup_id}.
type DeleteMirrorUsagePointUseCase struct{ Deps }

func NewDeleteMirrorUsagePointUseCase(d Deps) *DeleteMirrorUsagePointUseCase {
	return &DeleteMirrorUsagePointUseCase{Deps: d}
}

func (uc *DeleteMirrorUsagePointUseCase) Execute(ctx context.Context, s scope.MUPListRequestScope, siteReadingTypeID uint64) error {
	deleted, err := reading.DeleteSiteReadingTypeForAggregator(ctx, uc.DB, s.AggregatorID, toUint32Ptr(s.DeviceSiteID), siteReadingTypeID, now())
	if err != nil {
		return err
	}
	if !deleted {
		return sep2errors.NewNotFoundError("MirrorUsagePoint not found")
	}
	return nil
}
