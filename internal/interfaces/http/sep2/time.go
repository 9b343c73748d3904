package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sep2app "sep2utility/internal/application/sep2"
)

// GetTime handles GET /tm.
func (h *Handler) GetTime(c *gin.Context) {
	resp := sep2app.NewGetTimeUseCase(h.deps).Execute(c.Request.Context())
	writeXML(c, http.StatusOK, resp)
}
