package sep2

import (
	"context"
	"time"

	"sep2utility/internal/domain/mrid"
	"sep2utility/internal/domain/scope"
	"sep2utility/internal/domain/tariff"
	"sep2utility/internal/interfaces/dto"
	sep2errors "sep2utility/internal/shared/errors"
)

// ListTariffProfilesUseCase handles GET /tp (unscoped) and GET /edev/{site_id}/tp
// (site-scoped); siteID is nil for the former.
type ListTariffProfilesUseCase struct{ Deps }

func NewListTariffProfilesUseCase(d Deps) *ListTariffProfilesUseCase {
	return &ListTariffProfilesUseCase{Deps: d}
}

type ListTariffProfilesQuery struct {
	Scope        scope.BaseRequestScope
	AggregatorID int64
	SiteID       *uint32
	Query        dto.ListQuery
}

func (uc *ListTariffProfilesUseCase) Execute(ctx context.Context, q ListTariffProfilesQuery) (*dto.TariffProfileList, error) {
	limit := int(q.Query.Limit)
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	tariffs, err := tariff.SelectAllTariffs(ctx, uc.DB, int(q.Query.Start), time.Unix(q.Query.After, 0).UTC(), limit)
	if err != nil {
		return nil, err
	}
	total, err := tariff.SelectTariffCount(ctx, uc.DB, time.Unix(q.Query.After, 0).UTC())
	if err != nil {
		return nil, err
	}

	b := uc.HrefBuilder()
	items := make([]dto.TariffProfile, 0, len(tariffs))
	for _, t := range tariffs {
		mridStr, err := mrid.EncodeTariffProfileMRID(q.Scope, uint64(t.TariffID))
		if err != nil {
			return nil, err
		}
		var rcAll uint32
		if q.SiteID != nil {
			days, err := tariff.SelectUniqueRateDays(ctx, uc.DB, q.AggregatorID, t.TariffID, *q.SiteID, time.Time{}, uc.SiteLocation(""))
			if err != nil {
				return nil, err
			}
			rcAll = uint32(len(days) * 4)
		}
		items = append(items, dto.MapTariffProfileToResponse(t, mridStr, q.SiteID, rcAll, b))
	}

	return &dto.TariffProfileList{
		Xmlns:          dto.Namespace,
		ListResponse:   dto.ListResponse{All: uint32(total), Results: uint32(len(items))},
		TariffProfiles: items,
	}, nil
}

// GetTariffProfileUseCase handles GET /tp/{tariff_id} and GET .../tp/{tariff_id}.
type GetTariffProfileUseCase struct{ Deps }

func NewGetTariffProfileUseCase(d Deps) *GetTariffProfileUseCase {
	return &GetTariffProfileUseCase{Deps: d}
}

type GetTariffProfileQuery struct {
	Scope        scope.BaseRequestScope
	AggregatorID int64
	TariffID     uint32
	SiteID       *uint32
}

func (uc *GetTariffProfileUseCase) Execute(ctx context.Context, q GetTariffProfileQuery) (*dto.TariffProfile, error) {
	t, err := tariff.SelectSingleTariff(ctx, uc.DB, q.TariffID)
	if err != nil {
		return nil, sep2errors.NewNotFoundError("TariffProfile not found")
	}

	mridStr, err := mrid.EncodeTariffProfileMRID(q.Scope, uint64(t.TariffID))
	if err != nil {
		return nil, err
	}

	var rcAll uint32
	if q.SiteID != nil {
		days, err := tariff.SelectUniqueRateDays(ctx, uc.DB, q.AggregatorID, t.TariffID, *q.SiteID, time.Time{}, uc.SiteLocation(""))
		if err != nil {
			return nil, err
		}
		rcAll = uint32(len(days) * 4)
	}

	resp := dto.MapTariffProfileToResponse(*t, mridStr, q.SiteID, rcAll, uc.HrefBuilder())
	return &resp, nil
}

// ListRateComponentsUseCase handles GET .../tp/{tariff_id}/rc, paginating the virtual
// (day x pricing reading type) product per spec.md §4.5.
type ListRateComponentsUseCase struct{ Deps }

func NewListRateComponentsUseCase(d Deps) *ListRateComponentsUseCase {
	return &ListRateComponentsUseCase{Deps: d}
}

type ListRateComponentsQuery struct {
	Scope        scope.SiteRequestScope
	AggregatorID int64
	TariffID     uint32
	Query        dto.ListQuery
}

func (uc *ListRateComponentsUseCase) Execute(ctx context.Context, q ListRateComponentsQuery) (*dto.RateComponentList, error) {
	limit := int(q.Query.Limit)
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	loc := uc.SiteLocation("")

	refs, all, err := tariff.FetchRateComponentList(
		ctx, uc.DB, q.AggregatorID, q.TariffID, uint32(q.Scope.SiteID),
		time.Unix(q.Query.After, 0).UTC(), loc, int(q.Query.Start), limit,
	)
	if err != nil {
		return nil, err
	}

	b := uc.HrefBuilder()
	items := make([]dto.RateComponent, 0, len(refs))
	for _, ref := range refs {
		mridStr, err := mrid.EncodeRateComponentMRID(q.Scope, uint64(q.TariffID), uint64(q.Scope.SiteID), ref.Day, ref.PricingReadingType)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.MapRateComponentToResponse(ref, uint32(q.Scope.SiteID), q.TariffID, mridStr, b))
	}

	return &dto.RateComponentList{
		Xmlns:          dto.Namespace,
		ListResponse:   dto.ListResponse{All: uint32(all), Results: uint32(len(items))},
		RateComponents: items,
	}, nil
}

// ListTimeTariffIntervalsUseCase handles GET .../rc/{day}/{prt}/tti, one row per
// TariffGeneratedRate on that calendar day.
type ListTimeTariffIntervalsUseCase struct{ Deps }

func NewListTimeTariffIntervalsUseCase(d Deps) *ListTimeTariffIntervalsUseCase {
	return &ListTimeTariffIntervalsUseCase{Deps: d}
}

type ListTimeTariffIntervalsQuery struct {
	Scope        scope.SiteRequestScope
	AggregatorID int64
	TariffID     uint32
	Day          time.Time
	PRT          tariff.PricingReadingType
	Query        dto.ListQuery
}

func (uc *ListTimeTariffIntervalsUseCase) Execute(ctx context.Context, q ListTimeTariffIntervalsQuery) (*dto.TimeTariffIntervalList, error) {
	limit := int(q.Query.Limit)
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	loc := uc.SiteLocation("")

	rates, err := tariff.SelectTariffRatesForDay(
		ctx, uc.DB, q.AggregatorID, q.TariffID, uint32(q.Scope.SiteID), q.Day, loc,
		int(q.Query.Start), time.Unix(q.Query.After, 0).UTC(), limit,
	)
	if err != nil {
		return nil, err
	}
	total, err := tariff.CountTariffRatesForDay(ctx, uc.DB, q.AggregatorID, q.TariffID, uint32(q.Scope.SiteID), q.Day, loc, time.Unix(q.Query.After, 0).UTC())
	if err != nil {
		return nil, err
	}

	b := uc.HrefBuilder()
	items := make([]dto.TimeTariffInterval, 0, len(rates))
	for _, r := range rates {
		mridStr, err := mrid.EncodeTimeTariffIntervalMRID(q.Scope, r.TariffGeneratedRateID, q.PRT)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.MapTimeTariffIntervalToResponse(r, q.PRT, mridStr, uint32(q.Scope.SiteID), q.TariffID, loc, b))
	}

	return &dto.TimeTariffIntervalList{
		Xmlns:               dto.Namespace,
		ListResponse:        dto.ListResponse{All: uint32(total), Results: uint32(len(items))},
		TimeTariffIntervals: items,
	}, nil
}

// GetConsumptionTariffIntervalListUseCase handles GET .../tti/{time_of_day}/cti - always a
// single-element list, addressed by the exact (day, prt, time_of_day) triple.
type GetConsumptionTariffIntervalListUseCase struct{ Deps }

func NewGetConsumptionTariffIntervalListUseCase(d Deps) *GetConsumptionTariffIntervalListUseCase {
	return &GetConsumptionTariffIntervalListUseCase{Deps: d}
}

type GetConsumptionTariffIntervalListQuery struct {
	Scope        scope.SiteRequestScope
	AggregatorID int64
	TariffID     uint32
	Day          time.Time
	TimeOfDay    time.Duration
	PRT          tariff.PricingReadingType
}

func (uc *GetConsumptionTariffIntervalListUseCase) Execute(ctx context.Context, q GetConsumptionTariffIntervalListQuery) (*dto.ConsumptionTariffIntervalList, error) {
	loc := uc.SiteLocation("")
	rate, err := tariff.SelectTariffRateForDayTime(ctx, uc.DB, q.AggregatorID, q.TariffID, uint32(q.Scope.SiteID), q.Day, q.TimeOfDay, loc)
	if err != nil {
		return nil, sep2errors.NewNotFoundError("TimeTariffInterval not found")
	}

	price := tariff.ExtractPrice(q.PRT, *rate)
	priceInt := int64(price * pow10(tariff.PriceDecimalPlaces))
	resp := dto.MapConsumptionTariffIntervalToResponse(
		uint32(q.Scope.SiteID), q.TariffID, dto.DayKey(q.Day), int(q.PRT), dto.TimeOfDayKey(rate.StartTime, loc), priceInt, uc.HrefBuilder(),
	)
	return &resp, nil
}

func pow10(n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
