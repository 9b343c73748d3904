package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sep2app "sep2utility/internal/application/sep2"
	"sep2utility/internal/domain/scope"
	"sep2utility/internal/interfaces/dto"
	"sep2utility/internal/interfaces/http/middleware"
	sep2errors "sep2utility/internal/shared/errors"
)

// ListEndDevices handles GET /edev.
func (h *Handler) ListEndDevices(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToUnregisteredRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := sep2app.NewListEndDevicesUseCase(h.deps).Execute(c.Request.Context(), sep2app.ListEndDevicesQuery{
		Scope: s,
		Query: listQueryFromRequest(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// CreateEndDevice handles POST /edev.
func (h *Handler) CreateEndDevice(c *gin.Context) {
	claims := middleware.RequestClaims(c)
	s, err := claims.ToUnregisteredRequestScope()
	if err != nil {
		writeError(c, err)
		return
	}
	var req dto.EndDeviceRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed EndDevice body: "+err.Error()))
		return
	}
	resp, err := sep2app.NewRegisterEndDeviceUseCase(h.deps, h.pinGen).Execute(c.Request.Context(), sep2app.RegisterEndDeviceCommand{
		Scope:   s,
		Request: req,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeCreated(c, resp.Href)
}

// siteScope resolves the {site_id} path parameter into a scope.SiteRequestScope, writing the
// appropriate error response and returning ok=false if the parameter is malformed or the
// client's certificate isn't scoped to that site.
func (h *Handler) siteScope(c *gin.Context) (scope.SiteRequestScope, bool) {
	siteID, err := paramInt64(c, "site_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return scope.SiteRequestScope{}, false
	}
	claims := middleware.RequestClaims(c)
	s, err := claims.ToSiteRequestScope(siteID)
	if err != nil {
		writeError(c, err)
		return scope.SiteRequestScope{}, false
	}
	return s, true
}

// GetEndDevice handles GET /edev/{site_id}.
func (h *Handler) GetEndDevice(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewGetEndDeviceUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// DeleteEndDevice handles DELETE /edev/{site_id}.
func (h *Handler) DeleteEndDevice(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	if err := sep2app.NewDeleteEndDeviceUseCase(h.deps).Execute(c.Request.Context(), siteScope); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}

// GetRegistration handles GET /edev/{site_id}/reg.
func (h *Handler) GetRegistration(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewGetRegistrationUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// GetConnectionPoint handles GET /edev/{site_id}/cp.
func (h *Handler) GetConnectionPoint(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewGetConnectionPointUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// PutConnectionPoint handles PUT /edev/{site_id}/cp.
func (h *Handler) PutConnectionPoint(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	var req dto.ConnectionPointRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed ConnectionPoint body: "+err.Error()))
		return
	}
	if err := sep2app.NewPutConnectionPointUseCase(h.deps).Execute(c.Request.Context(), siteScope, req); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}
