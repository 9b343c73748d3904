package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adminapp "sep2utility/internal/application/admin"
	"sep2utility/internal/domain/calculationlog"
	"sep2utility/internal/shared/services/markdown"
	"sep2utility/internal/shared/utils"
)

var calculationLogRenderer = markdown.NewMarkdownService()

// calculationLogView adds a sanitized HTML rendering of Description (operators write these as
// markdown run notes) for admin UI consumers, alongside the raw stored string.
type calculationLogView struct {
	*calculationlog.CalculationLog
	DescriptionHTML string `json:"description_html"`
}

func renderCalculationLog(l *calculationlog.CalculationLog) (*calculationLogView, error) {
	html, err := calculationLogRenderer.ToHTMLSanitized(l.Description)
	if err != nil {
		return nil, err
	}
	return &calculationLogView{CalculationLog: l, DescriptionHTML: html}, nil
}

// CreateCalculationLog handles POST /admin/calculation-logs.
func (h *Handler) CreateCalculationLog(c *gin.Context) {
	var body struct {
		Description string `json:"description" binding:"required"`
		ExternalID  string `json:"external_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	l, err := adminapp.NewCreateCalculationLogUseCase(h.deps).Execute(c.Request.Context(), adminapp.CreateCalculationLogCommand{
		Description: body.Description,
		ExternalID:  body.ExternalID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	view, err := renderCalculationLog(l)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.CreatedResponse(c, view)
}

// GetCalculationLog handles GET /admin/calculation-logs/{id}.
func (h *Handler) GetCalculationLog(c *gin.Context) {
	id, err := paramUint32(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	l, err := adminapp.NewGetCalculationLogUseCase(h.deps).Execute(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	view, err := renderCalculationLog(l)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", view)
}

// ListCalculationLogs handles GET /admin/calculation-logs.
func (h *Handler) ListCalculationLogs(c *gin.Context) {
	p := utils.ParsePagination(c)
	start := (p.Page - 1) * p.PageSize
	logs, err := adminapp.NewListCalculationLogsUseCase(h.deps).Execute(c.Request.Context(), start, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, logs, int64(len(logs)), p.Page, p.PageSize)
}
