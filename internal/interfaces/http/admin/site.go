package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adminapp "sep2utility/internal/application/admin"
	"sep2utility/internal/domain/site"
	"sep2utility/internal/shared/utils"
)

// GetSite handles GET /admin/sites/{id}.
func (h *Handler) GetSite(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	s, err := adminapp.NewGetSiteUseCase(h.deps).Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", s)
}

// ListSites handles GET /admin/sites.
func (h *Handler) ListSites(c *gin.Context) {
	p := utils.ParsePagination(c)
	start := (p.Page - 1) * p.PageSize
	sites, err := adminapp.NewListSitesUseCase(h.deps).Execute(c.Request.Context(), start, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, sites, int64(len(sites)), p.Page, p.PageSize)
}

// UpdateSite handles PUT /admin/sites/{id}.
func (h *Handler) UpdateSite(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		NMI            *string             `json:"nmi"`
		TimezoneID     string              `json:"timezone_id" binding:"required"`
		DeviceCategory site.DeviceCategory `json:"device_category"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewUpdateSiteUseCase(h.deps).Execute(c.Request.Context(), adminapp.UpdateSiteCommand{
		SiteID:         id,
		NMI:            body.NMI,
		TimezoneID:     body.TimezoneID,
		DeviceCategory: body.DeviceCategory,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// DeleteSite handles DELETE /admin/sites/{id}.
func (h *Handler) DeleteSite(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewDeleteSiteUseCase(h.deps).Execute(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
