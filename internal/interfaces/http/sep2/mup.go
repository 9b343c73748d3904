package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sep2app "sep2utility/internal/application/sep2"
	"sep2utility/internal/interfaces/dto"
	"sep2utility/internal/interfaces/http/middleware"
	sep2errors "sep2utility/internal/shared/errors"
)

// CreateMirrorUsagePoint handles POST /mup.
func (h *Handler) CreateMirrorUsagePoint(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToMUPRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	var req dto.MirrorUsagePointRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed MirrorUsagePoint body: "+err.Error()))
		return
	}
	siteID := uint32(0)
	if s.SiteID != nil {
		siteID = uint32(*s.SiteID)
	}
	resp, err := sep2app.NewCreateMirrorUsagePointUseCase(h.deps).Execute(c.Request.Context(), sep2app.CreateMirrorUsagePointCommand{
		Scope:   s,
		SiteID:  siteID,
		Request: req,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeCreated(c, resp.Href)
}

// ListMirrorUsagePoints handles GET /mup.
func (h *Handler) ListMirrorUsagePoints(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToMUPListRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	var siteID *uint32
	if s.DeviceSiteID != nil {
		v := uint32(*s.DeviceSiteID)
		siteID = &v
	}
	resp, err := sep2app.NewListMirrorUsagePointsUseCase(h.deps).Execute(c.Request.Context(), sep2app.ListMirrorUsagePointsQuery{
		Scope:  s,
		SiteID: siteID,
		Query:  listQueryFromRequest(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// GetMirrorUsagePoint handles GET /mup/{mup_id}.
func (h *Handler) GetMirrorUsagePoint(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToMUPListRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	mupID, err := paramUint64(c, "mup_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	var siteID *uint32
	if s.DeviceSiteID != nil {
		v := uint32(*s.DeviceSiteID)
		siteID = &v
	}
	resp, err := sep2app.NewGetMirrorUsagePointUseCase(h.deps).Execute(c.Request.Context(), sep2app.GetMirrorUsagePointQuery{
		Scope:             s,
		SiteReadingTypeID: mupID,
		SiteID:            siteID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// PutMirrorUsagePoint handles PUT /mup/{mup_id}.
func (h *Handler) PutMirrorUsagePoint(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToMUPListRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	mupID, err := paramUint64(c, "mup_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	var req dto.MirrorUsagePointRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed MirrorUsagePoint body: "+err.Error()))
		return
	}
	var siteID *uint32
	if s.DeviceSiteID != nil {
		v := uint32(*s.DeviceSiteID)
		siteID = &v
	}
	if err := sep2app.NewPutMirrorUsagePointUseCase(h.deps).Execute(c.Request.Context(), sep2app.PutMirrorUsagePointCommand{
		Scope:             s,
		SiteReadingTypeID: mupID,
		SiteID:            siteID,
		Request:           req,
	}); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}

// DeleteMirrorUsagePoint handles DELETE /mup/{mup_id}.
func (h *Handler) DeleteMirrorUsagePoint(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToMUPListRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	mupID, err := paramUint64(c, "mup_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	if err := sep2app.NewDeleteMirrorUsagePointUseCase(h.deps).Execute(c.Request.Context(), s, mupID); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}

// GetMirrorMeterReading handles GET /mup/{mup_id}/mr.
func (h *Handler) GetMirrorMeterReading(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToMUPListRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	mupID, err := paramUint64(c, "mup_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	var siteID *uint32
	if s.DeviceSiteID != nil {
		v := uint32(*s.DeviceSiteID)
		siteID = &v
	}
	resp, err := sep2app.NewGetMirrorMeterReadingUseCase(h.deps).Execute(c.Request.Context(), sep2app.GetMirrorMeterReadingQuery{
		Scope:             s,
		SiteReadingTypeID: mupID,
		SiteID:            siteID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// UploadReadings handles POST /mup/{mup_id}: a reading batch against an existing
// MirrorUsagePoint.
func (h *Handler) UploadReadings(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToMUPListRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	mupID, err := paramUint64(c, "mup_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	var req dto.MirrorUsagePointRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed Reading batch body: "+err.Error()))
		return
	}
	var siteID *uint32
	if s.DeviceSiteID != nil {
		v := uint32(*s.DeviceSiteID)
		siteID = &v
	}
	if err := sep2app.NewUploadReadingsUseCase(h.deps).Execute(c.Request.Context(), sep2app.UploadReadingsCommand{
		Scope:             s,
		SiteReadingTypeID: mupID,
		SiteID:            siteID,
		Request:           req,
	}); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}
