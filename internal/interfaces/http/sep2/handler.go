package sep2

import (
	"sep2utility/internal/domain/site"
	sep2app "sep2utility/internal/application/sep2"
)

// Handler groups the internal/application/sep2 use cases behind the gin-facing methods
// registered by RegisterRoutes. One Handler serves the whole 2030.5 surface; its methods are
// split across files mirroring the application layer's own resource-family split.
type Handler struct {
	deps   sep2app.Deps
	pinGen site.PINGenerator
}

// NewHandler builds a Handler over deps, generating registration PINs with pinGen.
func NewHandler(deps sep2app.Deps, pinGen site.PINGenerator) *Handler {
	return &Handler{deps: deps, pinGen: pinGen}
}
