package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminapp "sep2utility/internal/application/admin"
	"sep2utility/internal/infrastructure/auth"
	"sep2utility/internal/interfaces/http/middleware"
	"sep2utility/internal/shared/config"
	"sep2utility/internal/shared/logger"
)

// RegisterRoutes mounts the JSON admin surface (spec.md §6.2) on engine, behind CORS/Recovery/
// Logger/AdminAuth/RequireAdmin. db builds the shared application Deps; jwtCfg and
// allowedOrigins configure the admin-only auth and CORS middleware.
func RegisterRoutes(engine *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig, allowedOrigins []string) {
	log := logger.NewLogger()
	deps := adminapp.Deps{DB: db, Logger: log}
	h := NewHandler(deps)
	jwtService := auth.NewJWTService(jwtCfg.Secret, jwtCfg.AccessExpMinutes, jwtCfg.RefreshExpDays)

	engine.Use(middleware.Recovery(writeRecoveredError))
	engine.Use(middleware.Logger())
	engine.Use(middleware.CORS(allowedOrigins))

	admin := engine.Group("/admin")
	admin.Use(middleware.AdminAuth(jwtService, log))
	admin.Use(middleware.RequireAdmin())

	aggregators := admin.Group("/aggregators")
	aggregators.POST("", h.CreateAggregator)
	aggregators.GET("", h.ListAggregators)
	aggregators.GET("/:id", h.GetAggregator)
	aggregators.PUT("/:id", h.UpdateAggregator)
	aggregators.DELETE("/:id", h.DeleteAggregator)
	aggregators.POST("/:id/domains", h.AddAggregatorDomain)

	certificates := admin.Group("/certificates")
	certificates.POST("", h.CreateCertificate)
	certificates.GET("", h.ListCertificates)
	certificates.PUT("/:id/expiry", h.UpdateCertificateExpiry)
	certificates.DELETE("/:id", h.DeleteCertificate)
	certificates.POST("/:id/assignments", h.AssignCertificate)

	sites := admin.Group("/sites")
	sites.GET("", h.ListSites)
	sites.GET("/:id", h.GetSite)
	sites.PUT("/:id", h.UpdateSite)
	sites.DELETE("/:id", h.DeleteSite)
	sites.PUT("/:site_id/site-control-groups/:id/default", h.UpsertDefaultSiteControl)

	groups := admin.Group("/site-control-groups")
	groups.POST("", h.CreateSiteControlGroup)
	groups.GET("", h.ListSiteControlGroups)
	groups.GET("/:id", h.GetSiteControlGroup)
	groups.PUT("/:id", h.UpdateSiteControlGroup)
	groups.DELETE("/:id", h.DeleteSiteControlGroup)
	groups.POST("/:id/does", h.UpsertDOEs)
	groups.DELETE("/:id/does", h.DeleteDOERange)
	groups.PUT("/:id/default", h.UpsertSiteControlGroupDefault)

	tariffs := admin.Group("/tariffs")
	tariffs.POST("", h.CreateTariff)
	tariffs.GET("", h.ListTariffs)
	tariffs.GET("/:id", h.GetTariff)
	tariffs.PUT("/:id", h.UpdateTariff)
	tariffs.DELETE("/:id", h.DeleteTariff)
	tariffs.POST("/:id/rates", h.UpsertGeneratedRates)

	logs := admin.Group("/calculation-logs")
	logs.POST("", h.CreateCalculationLog)
	logs.GET("", h.ListCalculationLogs)
	logs.GET("/:id", h.GetCalculationLog)

	admin.GET("/config", h.GetServerConfig)
	admin.PUT("/config", h.UpdateServerConfig)
}

func writeRecoveredError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"message": "internal error"}})
}
