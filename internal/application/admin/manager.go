// Package admin is the application/use-case layer for the admin surface (spec.md §6.2): JSON,
// unscoped-by-aggregator CRUD over every resource family the 2030.5 surface otherwise exposes
// scoped and XML-encoded. Follows the same Deps-embedding UseCase+Execute convention as
// internal/application/sep2.
package admin

import (
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/shared/logger"
)

// Deps carries the dependencies every admin use-case needs.
type Deps struct {
	DB     *gorm.DB
	Logger logger.Interface
}

func now() time.Time { return time.Now().UTC() }
