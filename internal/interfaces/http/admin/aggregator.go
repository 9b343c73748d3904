package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	adminapp "sep2utility/internal/application/admin"
	"sep2utility/internal/shared/utils"
)

// CreateAggregator handles POST /admin/aggregators.
func (h *Handler) CreateAggregator(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	agg, err := adminapp.NewCreateAggregatorUseCase(h.deps).Execute(c.Request.Context(), adminapp.CreateAggregatorCommand{Name: body.Name})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, agg)
}

// GetAggregator handles GET /admin/aggregators/{id}.
func (h *Handler) GetAggregator(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	agg, err := adminapp.NewGetAggregatorUseCase(h.deps).Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", agg)
}

// ListAggregators handles GET /admin/aggregators.
func (h *Handler) ListAggregators(c *gin.Context) {
	p := utils.ParsePagination(c)
	start := (p.Page - 1) * p.PageSize
	aggs, err := adminapp.NewListAggregatorsUseCase(h.deps).Execute(c.Request.Context(), start, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, aggs, int64(len(aggs)), p.Page, p.PageSize)
}

// UpdateAggregator handles PUT /admin/aggregators/{id}.
func (h *Handler) UpdateAggregator(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewUpdateAggregatorUseCase(h.deps).Execute(c.Request.Context(), adminapp.UpdateAggregatorCommand{
		AggregatorID: id,
		Name:         body.Name,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// DeleteAggregator handles DELETE /admin/aggregators/{id}.
func (h *Handler) DeleteAggregator(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewDeleteAggregatorUseCase(h.deps).Execute(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// AddAggregatorDomain handles POST /admin/aggregators/{id}/domains.
func (h *Handler) AddAggregatorDomain(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Domain string `json:"domain" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewAddAggregatorDomainUseCase(h.deps).Execute(c.Request.Context(), adminapp.AddAggregatorDomainCommand{
		AggregatorID: id,
		Domain:       body.Domain,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// CreateCertificate handles POST /admin/certificates.
func (h *Handler) CreateCertificate(c *gin.Context) {
	var body struct {
		LFDI   string    `json:"lfdi" binding:"required"`
		SFDI   uint64    `json:"sfdi"`
		Expiry time.Time `json:"expiry"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	cert, err := adminapp.NewCreateCertificateUseCase(h.deps).Execute(c.Request.Context(), adminapp.CreateCertificateCommand{
		LFDI: body.LFDI, SFDI: body.SFDI, Expiry: body.Expiry,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, cert)
}

// ListCertificates handles GET /admin/certificates.
func (h *Handler) ListCertificates(c *gin.Context) {
	p := utils.ParsePagination(c)
	start := (p.Page - 1) * p.PageSize
	certs, err := adminapp.NewListCertificatesUseCase(h.deps).Execute(c.Request.Context(), start, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, certs, int64(len(certs)), p.Page, p.PageSize)
}

// UpdateCertificateExpiry handles PUT /admin/certificates/{id}/expiry.
func (h *Handler) UpdateCertificateExpiry(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Expiry time.Time `json:"expiry" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewUpdateCertificateExpiryUseCase(h.deps).Execute(c.Request.Context(), adminapp.UpdateCertificateExpiryCommand{
		CertificateID: id, Expiry: body.Expiry,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// DeleteCertificate handles DELETE /admin/certificates/{id}.
func (h *Handler) DeleteCertificate(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewDeleteCertificateUseCase(h.deps).Execute(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// AssignCertificate handles POST /admin/certificates/{id}/assignments.
func (h *Handler) AssignCertificate(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		AggregatorID uint32 `json:"aggregator_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := adminapp.NewAssignCertificateUseCase(h.deps).Execute(c.Request.Context(), adminapp.AssignCertificateCommand{
		CertificateID: id, AggregatorID: body.AggregatorID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
