package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sep2app "sep2utility/internal/application/sep2"
	sep2errors "sep2utility/internal/shared/errors"
)

// ListDERPrograms handles GET /edev/{site_id}/derp.
func (h *Handler) ListDERPrograms(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewListDERProgramsUseCase(h.deps).Execute(c.Request.Context(), siteScope, listQueryFromRequest(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// derGroupID resolves the {derp_id} path parameter (the "doe" alias or a bare group id).
func derGroupID(c *gin.Context) (uint32, error) {
	return parseGroupRef(c.Param("derp_id"))
}

// GetDERProgram handles GET /edev/{site_id}/derp/{derp_id}.
func (h *Handler) GetDERProgram(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	groupID, err := derGroupID(c)
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewGetDERProgramUseCase(h.deps).Execute(c.Request.Context(), sep2app.GetDERProgramQuery{
		Scope:   siteScope,
		GroupID: groupID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// ListActiveDERControls handles GET /edev/{site_id}/derp/{derp_id}/actderc.
func (h *Handler) ListActiveDERControls(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	groupID, err := derGroupID(c)
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewListActiveDERControlsUseCase(h.deps).Execute(c.Request.Context(), sep2app.ListActiveDERControlsQuery{
		Scope:   siteScope,
		GroupID: groupID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// ListDERControlsAtTime handles GET /edev/{site_id}/derp/{derp_id}/derc.
func (h *Handler) ListDERControlsAtTime(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	groupID, err := derGroupID(c)
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewListDERControlsAtTimeUseCase(h.deps).Execute(c.Request.Context(), sep2app.ListDERControlsAtTimeQuery{
		Scope:   siteScope,
		GroupID: groupID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// GetDefaultDERControl handles GET /edev/{site_id}/derp/{derp_id}/dderc.
func (h *Handler) GetDefaultDERControl(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	groupID, err := derGroupID(c)
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewGetDefaultDERControlUseCase(h.deps).Execute(c.Request.Context(), sep2app.GetDefaultDERControlQuery{
		Scope:   siteScope,
		GroupID: groupID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// GetDERControl handles GET /edev/{site_id}/derp/{derp_id}/derc/{doe_id}.
func (h *Handler) GetDERControl(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	doeID, err := paramUint64(c, "doe_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	resp, err := sep2app.NewGetDERControlUseCase(h.deps).Execute(c.Request.Context(), sep2app.GetDERControlQuery{
		Scope: siteScope,
		DOEID: doeID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}
