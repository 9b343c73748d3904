package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sep2app "sep2utility/internal/application/sep2"
	"sep2utility/internal/interfaces/http/middleware"
	sep2errors "sep2utility/internal/shared/errors"
)

// ListTariffProfiles handles GET /tp - the unscoped tariff catalogue.
func (h *Handler) ListTariffProfiles(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToUnregisteredRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := sep2app.NewListTariffProfilesUseCase(h.deps).Execute(c.Request.Context(), sep2app.ListTariffProfilesQuery{
		Scope:        s.BaseRequestScope,
		AggregatorID: s.AggregatorID,
		Query:        listQueryFromRequest(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// GetTariffProfile handles GET /tp/{tariff_id}.
func (h *Handler) GetTariffProfile(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToUnregisteredRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	tariffID, err := paramUint32(c, "tariff_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewGetTariffProfileUseCase(h.deps).Execute(c.Request.Context(), sep2app.GetTariffProfileQuery{
		Scope:        s.BaseRequestScope,
		AggregatorID: s.AggregatorID,
		TariffID:     tariffID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// ListSiteTariffProfiles handles GET /edev/{site_id}/tp.
func (h *Handler) ListSiteTariffProfiles(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	siteID := uint32(siteScope.SiteID)
	resp, err := sep2app.NewListTariffProfilesUseCase(h.deps).Execute(c.Request.Context(), sep2app.ListTariffProfilesQuery{
		Scope:        siteScope.BaseRequestScope,
		AggregatorID: siteScope.AggregatorID,
		SiteID:       &siteID,
		Query:        listQueryFromRequest(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// GetSiteTariffProfile handles GET /edev/{site_id}/tp/{tariff_id}.
func (h *Handler) GetSiteTariffProfile(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	tariffID, err := paramUint32(c, "tariff_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	siteID := uint32(siteScope.SiteID)
	resp, err := sep2app.NewGetTariffProfileUseCase(h.deps).Execute(c.Request.Context(), sep2app.GetTariffProfileQuery{
		Scope:        siteScope.BaseRequestScope,
		AggregatorID: siteScope.AggregatorID,
		TariffID:     tariffID,
		SiteID:       &siteID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// ListRateComponents handles GET /edev/{site_id}/tp/{tariff_id}/rc.
func (h *Handler) ListRateComponents(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	tariffID, err := paramUint32(c, "tariff_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewListRateComponentsUseCase(h.deps).Execute(c.Request.Context(), sep2app.ListRateComponentsQuery{
		Scope:        siteScope,
		AggregatorID: siteScope.AggregatorID,
		TariffID:     tariffID,
		Query:        listQueryFromRequest(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// ListTimeTariffIntervals handles GET .../rc/{day}/{prt}/tti.
func (h *Handler) ListTimeTariffIntervals(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	tariffID, err := paramUint32(c, "tariff_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	day, err := parseDayParam(c.Param("day"))
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	prt, err := parsePRTParam(c.Param("prt"))
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewListTimeTariffIntervalsUseCase(h.deps).Execute(c.Request.Context(), sep2app.ListTimeTariffIntervalsQuery{
		Scope:        siteScope,
		AggregatorID: siteScope.AggregatorID,
		TariffID:     tariffID,
		Day:          day,
		PRT:          prt,
		Query:        listQueryFromRequest(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// GetConsumptionTariffIntervalList handles GET .../tti/{time_of_day}/cti.
func (h *Handler) GetConsumptionTariffIntervalList(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	tariffID, err := paramUint32(c, "tariff_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	day, err := parseDayParam(c.Param("day"))
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	prt, err := parsePRTParam(c.Param("prt"))
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	timeOfDay, err := parseTimeOfDayParam(c.Param("time_of_day"))
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewGetConsumptionTariffIntervalListUseCase(h.deps).Execute(c.Request.Context(), sep2app.GetConsumptionTariffIntervalListQuery{
		Scope:        siteScope,
		AggregatorID: siteScope.AggregatorID,
		TariffID:     tariffID,
		Day:          day,
		TimeOfDay:    timeOfDay,
		PRT:          prt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}
