package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sep2utility/internal/domain/aggregator"
	"sep2utility/internal/domain/scope"
	"sep2utility/internal/domain/site"
	"sep2utility/internal/infrastructure/auth"
	"sep2utility/internal/shared/config"
	sep2errors "sep2utility/internal/shared/errors"
)

// RawClaimsKey is the gin.Context key CertAuth stores the derived scope.RawRequestClaims
// under; sep2 handlers retrieve it with RequestClaims.
const RawClaimsKey = "sep2_raw_request_claims"

// RequestClaims fetches the scope.RawRequestClaims CertAuth attached to this request. Panics
// if called on a route that doesn't mount CertAuth - that's a routing bug, not a runtime
// condition to recover from.
func RequestClaims(c *gin.Context) scope.RawRequestClaims {
	return c.MustGet(RawClaimsKey).(scope.RawRequestClaims)
}

// CertAuth implements the §4.8 authentication step for the 2030.5 surface: it reads the
// forwarded client-certificate header, resolves it to an LFDI/SFDI and the aggregator(s) the
// certificate is assigned to, and narrows that into a scope.RawRequestClaims stashed on the
// gin context for handlers to further narrow per-resource. A missing header is a deployment
// misconfiguration (500); an unknown or expired certificate is 403.
func CertAuth(db *gorm.DB, cfg *config.Sep2Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := nowUTC()
		header := c.GetHeader(cfg.CertPEMHeader)

		certScope, err := auth.AuthenticateCertificateHeader(c.Request.Context(), db, header, now)
		switch err {
		case nil:
		case auth.ErrAuthHeaderMissing:
			abortWithAppError(c, sep2errors.NewAuthHeaderMissingError(cfg.CertPEMHeader))
			return
		case auth.ErrCertificateUnauthorized:
			abortWithAppError(c, sep2errors.NewForbiddenError("certificate unauthorized"))
			return
		default:
			abortWithAppError(c, sep2errors.NewInternalError("failed to authenticate certificate: "+err.Error()))
			return
		}

		cert, err := aggregator.CertificateByLFDI(c.Request.Context(), db, certScope.LFDI)
		if err != nil {
			abortWithAppError(c, sep2errors.NewInternalError("failed to look up certificate: "+err.Error()))
			return
		}

		var aggID *uint32
		for _, id := range certScope.AggregatorIDs {
			if id != uint32(scope.NullAggregatorID) {
				id := id
				aggID = &id
				break
			}
		}

		source := scope.DeviceCertificate
		var aggregatorIDScope *int64
		if aggID != nil {
			source = scope.AggregatorCertificate
			v := int64(*aggID)
			aggregatorIDScope = &v
		}

		var siteIDScope *int64
		if source == scope.DeviceCertificate {
			registeredSite, err := site.SelectSiteByLFDI(c.Request.Context(), db, certScope.LFDI)
			if err == nil {
				v := int64(registeredSite.SiteID)
				siteIDScope = &v
			} else if err != gorm.ErrRecordNotFound {
				abortWithAppError(c, sep2errors.NewInternalError("failed to look up registered site: "+err.Error()))
				return
			}
		}

		claims := scope.RawRequestClaims{
			Source:            source,
			LFDI:              certScope.LFDI,
			SFDI:              cert.SFDI,
			HrefPrefix:        cfg.HrefPrefix,
			Pen:               uint64(cfg.IanaPen),
			AggregatorIDScope: aggregatorIDScope,
			SiteIDScope:       siteIDScope,
		}
		c.Set(RawClaimsKey, claims)
		c.Next()
	}
}
