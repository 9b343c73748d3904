package sep2

import (
	"context"

	"sep2utility/internal/domain/mrid"
	"sep2utility/internal/domain/scope"
	"sep2utility/internal/domain/sitecontrol"
	"sep2utility/internal/interfaces/dto"
	sep2errors "sep2utility/internal/shared/errors"
)

// ListDERProgramsUseCase handles GET /edev/{site_id}/derp.
type ListDERProgramsUseCase struct{ Deps }

func NewListDERProgramsUseCase(d Deps) *ListDERProgramsUseCase {
	return &ListDERProgramsUseCase{Deps: d}
}

func (uc *ListDERProgramsUseCase) Execute(ctx context.Context, s scope.SiteRequestScope, q dto.ListQuery) (*dto.DERProgramList, error) {
	limit := int(q.Limit)
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	groups, err := sitecontrol.EnumerateSiteControlGroups(ctx, uc.DB, nil, int(q.Start), limit)
	if err != nil {
		return nil, err
	}

	b := uc.HrefBuilder()
	items := make([]dto.DERProgram, 0, len(groups))
	for _, g := range groups {
		mridStr, err := mrid.EncodeDOEProgramMRID(s, uint64(s.SiteID))
		if err != nil {
			return nil, err
		}
		items = append(items, dto.MapDERProgramToResponse(g, mridStr, uint32(s.SiteID), b))
	}
	resp := &dto.DERProgramList{
		Xmlns:       dto.Namespace,
		DERPrograms: items,
	}
	resp.All = uint32(len(items))
	resp.Results = uint32(len(items))
	return resp, nil
}

// GetDERProgramUseCase handles GET /edev/{site_id}/derp/{derp_id}.
type GetDERProgramUseCase struct{ Deps }

func NewGetDERProgramUseCase(d Deps) *GetDERProgramUseCase { return &GetDERProgramUseCase{Deps: d} }

type GetDERProgramQuery struct {
	Scope   scope.SiteRequestScope
	GroupID uint32
}

func (uc *GetDERProgramUseCase) Execute(ctx context.Context, q GetDERProgramQuery) (*dto.DERProgram, error) {
	g, err := sitecontrol.GetSiteControlGroup(ctx, uc.DB, q.GroupID)
	if err != nil {
		return nil, sep2errors.NewNotFoundError("DERProgram not found")
	}
	mridStr, err := mrid.EncodeDOEProgramMRID(q.Scope, uint64(q.Scope.SiteID))
	if err != nil {
		return nil, err
	}
	resp := dto.MapDERProgramToResponse(*g, mridStr, uint32(q.Scope.SiteID), uc.HrefBuilder())
	return &resp, nil
}

// ListActiveDERControlsUseCase handles GET .../derp/{group}/actderc: the union-with-archive
// view of currently-active DOEs (spec.md §9).
type ListActiveDERControlsUseCase struct{ Deps }

func NewListActiveDERControlsUseCase(d Deps) *ListActiveDERControlsUseCase {
	return &ListActiveDERControlsUseCase{Deps: d}
}

type ListActiveDERControlsQuery struct {
	Scope   scope.SiteRequestScope
	GroupID uint32
}

func (uc *ListActiveDERControlsUseCase) Execute(ctx context.Context, q ListActiveDERControlsQuery) (*dto.DERControlList, error) {
	rows, err := sitecontrol.SelectActiveDOEsIncludeDeleted(ctx, uc.DB, q.GroupID, uint32(q.Scope.SiteID), now())
	if err != nil {
		return nil, err
	}

	loc := uc.SiteLocation("")
	b := uc.HrefBuilder()
	items := make([]dto.DERControl, 0, len(rows))
	for _, r := range rows {
		if r.IsArchive {
			mridStr, err := mrid.EncodeDOEMRID(q.Scope, r.Archived.DynamicOperatingEnvelopeID)
			if err != nil {
				return nil, err
			}
			items = append(items, dto.MapArchiveDERControlToResponse(*r.Archived, mridStr, loc, b))
			continue
		}
		mridStr, err := mrid.EncodeDOEMRID(q.Scope, r.Live.DynamicOperatingEnvelopeID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.MapDERControlToResponse(*r.Live, mridStr, loc, b))
	}

	return &dto.DERControlList{
		Xmlns:        dto.Namespace,
		ListResponse: dto.ListResponse{All: uint32(len(items)), Results: uint32(len(items))},
		DERControls:  items,
	}, nil
}

// ListDERControlsAtTimeUseCase handles GET .../derp/{group}/derc: DOEs whose window contains
// the query instant (default now).
type ListDERControlsAtTimeUseCase struct{ Deps }

func NewListDERControlsAtTimeUseCase(d Deps) *ListDERControlsAtTimeUseCase {
	return &ListDERControlsAtTimeUseCase{Deps: d}
}

type ListDERControlsAtTimeQuery struct {
	Scope   scope.SiteRequestScope
	GroupID uint32
}

func (uc *ListDERControlsAtTimeUseCase) Execute(ctx context.Context, q ListDERControlsAtTimeQuery) (*dto.DERControlList, error) {
	siteID := uint32(q.Scope.SiteID)
	rows, err := sitecontrol.SelectDOEsAtTimestamp(ctx, uc.DB, q.GroupID, q.Scope.AggregatorID, &siteID, now())
	if err != nil {
		return nil, err
	}

	loc := uc.SiteLocation("")
	b := uc.HrefBuilder()
	items := make([]dto.DERControl, 0, len(rows))
	for _, r := range rows {
		mridStr, err := mrid.EncodeDOEMRID(q.Scope, r.DynamicOperatingEnvelopeID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.MapDERControlToResponse(r, mridStr, loc, b))
	}

	return &dto.DERControlList{
		Xmlns:        dto.Namespace,
		ListResponse: dto.ListResponse{All: uint32(len(items)), Results: uint32(len(items))},
		DERControls:  items,
	}, nil
}

// GetDefaultDERControlUseCase handles GET .../derp/{group}/dderc.
type GetDefaultDERControlUseCase struct{ Deps }

func NewGetDefaultDERControlUseCase(d Deps) *GetDefaultDERControlUseCase {
	return &GetDefaultDERControlUseCase{Deps: d}
}

type GetDefaultDERControlQuery struct {
	Scope   scope.SiteRequestScope
	GroupID uint32
}

func (uc *GetDefaultDERControlUseCase) Execute(ctx context.Context, q GetDefaultDERControlQuery) (*dto.DefaultDERControl, error) {
	setEnergized, setConnected, importW, exportW, genW, loadW, err :=
		sitecontrol.ResolveDefaultControl(ctx, uc.DB, q.GroupID, uint32(q.Scope.SiteID))
	if err != nil {
		return nil, err
	}
	mridStr, err := mrid.EncodeDOEProgramMRID(q.Scope, uint64(q.Scope.SiteID))
	if err != nil {
		return nil, err
	}
	resp := dto.MapDefaultDERControlToResponse(
		uint32(q.Scope.SiteID), q.GroupID, mridStr,
		setEnergized, setConnected, importW, exportW, genW, loadW,
		uc.HrefBuilder(),
	)
	return &resp, nil
}

// GetDERControlUseCase handles GET .../derc/{doe_id}.
type GetDERControlUseCase struct{ Deps }

func NewGetDERControlUseCase(d Deps) *GetDERControlUseCase { return &GetDERControlUseCase{Deps: d} }

type GetDERControlQuery struct {
	Scope scope.SiteRequestScope
	DOEID uint64
}

func (uc *GetDERControlUseCase) Execute(ctx context.Context, q GetDERControlQuery) (*dto.DERControl, error) {
	var d sitecontrol.DynamicOperatingEnvelope
	err := uc.DB.WithContext(ctx).
		Where("dynamic_operating_envelope_id = ? AND site_id = ?", q.DOEID, q.Scope.SiteID).
		First(&d).Error
	if err != nil {
		return nil, sep2errors.NewNotFoundError("DERControl not found")
	}

	mridStr, err := mrid.EncodeDOEMRID(q.Scope, d.DynamicOperatingEnvelopeID)
	if err != nil {
		return nil, err
	}
	resp := dto.MapDERControlToResponse(d, mridStr, uc.SiteLocation(""), uc.HrefBuilder())
	return &resp, nil
}
