package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sep2app "sep2utility/internal/application/sep2"
	"sep2utility/internal/interfaces/dto"
	sep2errors "sep2utility/internal/shared/errors"
)

// GetDER handles GET /edev/{site_id}/der.
func (h *Handler) GetDER(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewGetDERUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// GetDERCapability handles GET /edev/{site_id}/der/dercap.
func (h *Handler) GetDERCapability(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewGetDERCapabilityUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// PutDERCapability handles PUT /edev/{site_id}/der/dercap.
func (h *Handler) PutDERCapability(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	var req dto.DERCapabilityRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed DERCapability body: "+err.Error()))
		return
	}
	if err := sep2app.NewPutDERCapabilityUseCase(h.deps).Execute(c.Request.Context(), siteScope, req); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}

// GetDERSettings handles GET /edev/{site_id}/der/derg.
func (h *Handler) GetDERSettings(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewGetDERSettingsUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// PutDERSettings handles PUT /edev/{site_id}/der/derg.
func (h *Handler) PutDERSettings(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	var req dto.DERSettingsRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed DERSettings body: "+err.Error()))
		return
	}
	if err := sep2app.NewPutDERSettingsUseCase(h.deps).Execute(c.Request.Context(), siteScope, req); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}

// GetDERAvailability handles GET /edev/{site_id}/der/dera.
func (h *Handler) GetDERAvailability(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewGetDERAvailabilityUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// PutDERAvailability handles PUT /edev/{site_id}/der/dera.
func (h *Handler) PutDERAvailability(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	var req dto.DERAvailabilityRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed DERAvailability body: "+err.Error()))
		return
	}
	if err := sep2app.NewPutDERAvailabilityUseCase(h.deps).Execute(c.Request.Context(), siteScope, req); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}

// GetDERStatus handles GET /edev/{site_id}/der/ders.
func (h *Handler) GetDERStatus(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewGetDERStatusUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// PutDERStatus handles PUT /edev/{site_id}/der/ders.
func (h *Handler) PutDERStatus(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	var req dto.DERStatusRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed DERStatus body: "+err.Error()))
		return
	}
	if err := sep2app.NewPutDERStatusUseCase(h.deps).Execute(c.Request.Context(), siteScope, req); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}
