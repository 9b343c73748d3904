package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adminapp "sep2utility/internal/application/admin"
	"sep2utility/internal/domain/tariff"
	"sep2utility/internal/shared/utils"
)

// CreateTariff handles POST /admin/tariffs.
func (h *Handler) CreateTariff(c *gin.Context) {
	var body struct {
		Name         string `json:"name" binding:"required"`
		DnspCode     string `json:"dnsp_code"`
		CurrencyCode uint32 `json:"currency_code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := adminapp.NewCreateTariffUseCase(h.deps).Execute(c.Request.Context(), adminapp.CreateTariffCommand{
		Name:         body.Name,
		DnspCode:     body.DnspCode,
		CurrencyCode: body.CurrencyCode,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, t)
}

// GetTariff handles GET /admin/tariffs/{id}.
func (h *Handler) GetTariff(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := adminapp.NewGetTariffUseCase(h.deps).Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", t)
}

// ListTariffs handles GET /admin/tariffs.
func (h *Handler) ListTariffs(c *gin.Context) {
	p := utils.ParsePagination(c)
	start := (p.Page - 1) * p.PageSize
	tariffs, err := adminapp.NewListTariffsUseCase(h.deps).Execute(c.Request.Context(), start, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, tariffs, int64(len(tariffs)), p.Page, p.PageSize)
}

// UpdateTariff handles PUT /admin/tariffs/{id}.
func (h *Handler) UpdateTariff(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Name         string `json:"name" binding:"required"`
		DnspCode     string `json:"dnsp_code"`
		CurrencyCode uint32 `json:"currency_code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewUpdateTariffUseCase(h.deps).Execute(c.Request.Context(), adminapp.UpdateTariffCommand{
		TariffID:     id,
		Name:         body.Name,
		DnspCode:     body.DnspCode,
		CurrencyCode: body.CurrencyCode,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// DeleteTariff handles DELETE /admin/tariffs/{id}.
func (h *Handler) DeleteTariff(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewDeleteTariffUseCase(h.deps).Execute(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// UpsertGeneratedRates handles POST /admin/tariffs/{id}/rates: bulk upsert of generated rate
// rows produced by an offline pricing calculation run.
func (h *Handler) UpsertGeneratedRates(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var rates []tariff.TariffGeneratedRate
	if err := c.ShouldBindJSON(&rates); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	for i := range rates {
		rates[i].TariffID = id
	}
	if err := adminapp.NewUpsertGeneratedRatesUseCase(h.deps).Execute(c.Request.Context(), rates); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
