// Package sep2 is the application/use-case layer for the 2030.5 client-facing surface
// (spec.md §6.1): it wires the internal/domain engines to internal/interfaces/http/sep2's
// handlers, mirroring the teacher's internal/application/<area>/usecases convention - one
// exported UseCase struct with an Execute method per client operation, constructed with its
// domain-level dependencies rather than a repository interface, since internal/domain/* here
// exposes plain functions over *gorm.DB instead of the teacher's repository interfaces.
package sep2

import (
	"time"

	"gorm.io/gorm"

	"sep2utility/internal/infrastructure/href"
	"sep2utility/internal/shared/biztime"
	"sep2utility/internal/shared/config"
	"sep2utility/internal/shared/logger"
)

// Deps carries the dependencies every use-case in this package needs: the database handle,
// the deployment's sep2 config (iana pen, href prefix, default timezone), and the logger.
type Deps struct {
	DB     *gorm.DB
	Config *config.Sep2Config
	Logger logger.Interface
}

// HrefBuilder returns an href.Builder rooted at this deployment's configured prefix.
func (d Deps) HrefBuilder() href.Builder {
	return href.New(d.Config.HrefPrefix)
}

// SiteLocation resolves the timezone rates/DOEs for a site are localized against. Every site
// carries its own IANA zone name; callers needing a *time.Location construct it from the
// Site row itself rather than always falling back to this deployment default.
func (d Deps) SiteLocation(tz string) *time.Location {
	if tz == "" {
		return biztime.Location()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return biztime.Location()
	}
	return loc
}

func now() time.Time { return time.Now().UTC() }

func zeroTime() time.Time { return time.Time{} }

// toUint32Ptr narrows a scope's *int64 site pin (DeviceSiteID) to the *uint32 the reading
// engine's queries take.
func toUint32Ptr(v *int64) *uint32 {
	if v == nil {
		return nil
	}
	u := uint32(*v)
	return &u
}
