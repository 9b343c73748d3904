// Package admin implements the JSON admin surface (spec.md §6.2): CRUD not scoped by
// aggregator over aggregators and their domains, certificates and their assignments, sites,
// site-control groups, DOEs and defaults, tariffs and generated rates, calculation logs and the
// runtime server config, wiring internal/application/admin behind gin handlers that answer with
// internal/shared/utils' standard APIResponse envelope.
package admin

import (
	adminapp "sep2utility/internal/application/admin"
)

// Handler groups the internal/application/admin use cases behind the gin-facing methods
// registered by RegisterRoutes.
type Handler struct {
	deps adminapp.Deps
}

// NewHandler builds a Handler over deps.
func NewHandler(deps adminapp.Deps) *Handler {
	return &Handler{deps: deps}
}
