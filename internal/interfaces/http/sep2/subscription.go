package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sep2app "sep2utility/internal/application/sep2"
	"sep2utility/internal/interfaces/dto"
	sep2errors "sep2utility/internal/shared/errors"
)

// CreateSubscription handles POST /edev/{site_id}/sub.
func (h *Handler) CreateSubscription(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	var req dto.SubscriptionRequest
	if err := bindXML(c, &req); err != nil {
		writeError(c, sep2errors.NewBadRequestError("malformed Subscription body: "+err.Error()))
		return
	}
	resp, err := sep2app.NewCreateSubscriptionUseCase(h.deps).Execute(c.Request.Context(), sep2app.CreateSubscriptionCommand{
		Scope:   siteScope,
		Request: req,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeCreated(c, resp.Href)
}

// ListSubscriptions handles GET /edev/{site_id}/sub.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	resp, err := sep2app.NewListSubscriptionsUseCase(h.deps).Execute(c.Request.Context(), siteScope)
	if err != nil {
		writeError(c, err)
		return
	}
	writeXML(c, http.StatusOK, resp)
}

// DeleteSubscription handles DELETE /edev/{site_id}/sub/{sub_id}.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	siteScope, ok := h.siteScope(c)
	if !ok {
		return
	}
	subID, err := paramUint64(c, "sub_id")
	if err != nil {
		writeError(c, sep2errors.NewBadRequestError(err.Error()))
		return
	}
	if err := sep2app.NewDeleteSubscriptionUseCase(h.deps).Execute(c.Request.Context(), siteScope, subID); err != nil {
		writeError(c, err)
		return
	}
	writeNoContent(c)
}
