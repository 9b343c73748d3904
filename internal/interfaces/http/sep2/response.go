// Package sep2 wires internal/application/sep2's use cases to gin, implementing the 2030.5
// client-facing surface of spec.md §6.1: XML request/response bodies under
// application/sep+xml, client-certificate scoping via internal/interfaces/http/middleware,
// and the 201+Location/204/400/403/404/500 status taxonomy spec.md §6.1/§7 specify.
package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sep2utility/internal/interfaces/dto"
	sep2errors "sep2utility/internal/shared/errors"
)

const contentTypeSep2XML = "application/sep+xml"

// writeXML marshals v as a 2030.5 XML document and writes it with status.
func writeXML(c *gin.Context, status int, v any) {
	body, err := dto.MarshalXML(v)
	if err != nil {
		writeError(c, sep2errors.NewInternalError("failed to marshal response: "+err.Error()))
		return
	}
	c.Data(status, contentTypeSep2XML, body)
}

// writeCreated answers a successful POST with 201 and a Location header pointing at the
// resource just created, per spec.md §6.1.
func writeCreated(c *gin.Context, location string) {
	c.Header("Location", location)
	c.Status(http.StatusCreated)
}

// writeNoContent answers a successful PUT/DELETE with 204, per spec.md §6.1.
func writeNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// writeError maps an error to the sep2 error taxonomy's status code. 2030.5 has no standard
// error-body schema, so the body is a short diagnostic string rather than a typed XML element.
func writeError(c *gin.Context, err error) {
	if appErr := sep2errors.GetAppError(err); appErr != nil {
		c.String(appErr.Code, appErr.Message)
		return
	}
	c.String(http.StatusInternalServerError, "internal error")
}
