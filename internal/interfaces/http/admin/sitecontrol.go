package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	adminapp "sep2utility/internal/application/admin"
	"sep2utility/internal/domain/sitecontrol"
	"sep2utility/internal/shared/utils"
)

// CreateSiteControlGroup handles POST /admin/site-control-groups.
func (h *Handler) CreateSiteControlGroup(c *gin.Context) {
	var body struct {
		Description string `json:"description" binding:"required"`
		Primacy     uint32 `json:"primacy"`
		FsaID       uint32 `json:"fsa_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	g, err := adminapp.NewCreateSiteControlGroupUseCase(h.deps).Execute(c.Request.Context(), adminapp.CreateSiteControlGroupCommand{
		Description: body.Description,
		Primacy:     body.Primacy,
		FsaID:       body.FsaID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, g)
}

// GetSiteControlGroup handles GET /admin/site-control-groups/{id}.
func (h *Handler) GetSiteControlGroup(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	g, err := adminapp.NewGetSiteControlGroupUseCase(h.deps).Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", g)
}

// ListSiteControlGroups handles GET /admin/site-control-groups.
func (h *Handler) ListSiteControlGroups(c *gin.Context) {
	p := utils.ParsePagination(c)
	start := (p.Page - 1) * p.PageSize
	groups, err := adminapp.NewListSiteControlGroupsUseCase(h.deps).Execute(c.Request.Context(), start, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, groups, int64(len(groups)), p.Page, p.PageSize)
}

// UpdateSiteControlGroup handles PUT /admin/site-control-groups/{id}.
func (h *Handler) UpdateSiteControlGroup(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Description string `json:"description" binding:"required"`
		Primacy     uint32 `json:"primacy"`
		FsaID       uint32 `json:"fsa_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewUpdateSiteControlGroupUseCase(h.deps).Execute(c.Request.Context(), adminapp.UpdateSiteControlGroupCommand{
		GroupID:     id,
		Description: body.Description,
		Primacy:     body.Primacy,
		FsaID:       body.FsaID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// DeleteSiteControlGroup handles DELETE /admin/site-control-groups/{id}.
func (h *Handler) DeleteSiteControlGroup(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewDeleteSiteControlGroupUseCase(h.deps).Execute(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// UpsertDOEs handles POST /admin/site-control-groups/{id}/does: bulk upsert of
// DynamicOperatingEnvelope rows. A non-empty primacy map switches the upsert from
// cancel-then-insert to supersede-then-insert, per the domain's DOE replacement rules.
func (h *Handler) UpsertDOEs(c *gin.Context) {
	var body struct {
		DOEs             []sitecontrol.DynamicOperatingEnvelope `json:"does" binding:"required"`
		PrimacyByGroupID map[uint32]uint32                      `json:"primacy_by_group_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewUpsertDOEsUseCase(h.deps).Execute(c.Request.Context(), adminapp.UpsertDOEsCommand{
		DOEs:             body.DOEs,
		PrimacyByGroupID: body.PrimacyByGroupID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// DeleteDOERange handles DELETE /admin/site-control-groups/{id}/does: range-delete by
// start-time window, optionally narrowed to a single site.
func (h *Handler) DeleteDOERange(c *gin.Context) {
	groupID, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		SiteID      *uint32   `json:"site_id"`
		PeriodStart time.Time `json:"period_start" binding:"required"`
		PeriodEnd   time.Time `json:"period_end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewDeleteDOERangeUseCase(h.deps).Execute(c.Request.Context(), adminapp.DeleteDOERangeCommand{
		GroupID:     groupID,
		SiteID:      body.SiteID,
		PeriodStart: body.PeriodStart,
		PeriodEnd:   body.PeriodEnd,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// UpsertSiteControlGroupDefault handles PUT /admin/site-control-groups/{id}/default.
func (h *Handler) UpsertSiteControlGroupDefault(c *gin.Context) {
	groupID, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body sitecontrol.SiteControlGroupDefault
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	body.SiteControlGroupID = groupID
	if err := adminapp.NewUpsertSiteControlGroupDefaultUseCase(h.deps).Execute(c.Request.Context(), body); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// UpsertDefaultSiteControl handles PUT /admin/sites/{site_id}/site-control-groups/{id}/default.
func (h *Handler) UpsertDefaultSiteControl(c *gin.Context) {
	siteID, err := paramUint32(c, "site_id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	groupID, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body sitecontrol.DefaultSiteControl
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	body.SiteID = siteID
	body.SiteControlGroupID = groupID
	if err := adminapp.NewUpsertDefaultSiteControlUseCase(h.deps).Execute(c.Request.Context(), body); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
