package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adminapp "sep2utility/internal/application/admin"
	"sep2utility/internal/domain/serverconfig"
	"sep2utility/internal/shared/utils"
)

// GetServerConfig handles GET /admin/config.
func (h *Handler) GetServerConfig(c *gin.Context) {
	cfg, err := adminapp.NewGetServerConfigUseCase(h.deps).Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", cfg)
}

// UpdateServerConfig handles PUT /admin/config.
func (h *Handler) UpdateServerConfig(c *gin.Context) {
	var body serverconfig.RuntimeServerConfig
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := adminapp.NewUpdateServerConfigUseCase(h.deps).Execute(c.Request.Context(), body)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", cfg)
}
