// Package sep2 implements the IEEE 2030.5 / CSIP-AUS resource surface (spec.md §6.1): gin
// handlers that narrow an authenticated request into the right internal/domain/scope and
// dispatch into internal/application/sep2, encoding results as application/sep+xml.
package sep2

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	sep2app "sep2utility/internal/application/sep2"
	"sep2utility/internal/domain/site"
	"sep2utility/internal/interfaces/http/middleware"
	"sep2utility/internal/shared/config"
	"sep2utility/internal/shared/logger"
)

// RegisterRoutes mounts the full 2030.5 resource tree on engine, behind CertAuth/Recovery/
// Logger applied to these routes only. db and cfg build the shared application Deps; pinGen
// issues EndDevice registration PINs.
func RegisterRoutes(engine *gin.Engine, db *gorm.DB, cfg *config.Sep2Config, pinGen site.PINGenerator) {
	deps := sep2app.Deps{DB: db, Config: cfg, Logger: logger.NewLogger()}
	h := NewHandler(deps, pinGen)

	api := engine.Group("")
	api.Use(middleware.Recovery(writeRecoveredError))
	api.Use(middleware.Logger())
	api.Use(middleware.CertAuth(db, cfg))

	api.GET("/tm", h.GetTime)

	edev := api.Group("/edev")
	edev.GET("", h.ListEndDevices)
	edev.POST("", h.CreateEndDevice)
	edev.GET("/:site_id", h.GetEndDevice)
	edev.DELETE("/:site_id", h.DeleteEndDevice)
	edev.GET("/:site_id/reg", h.GetRegistration)
	edev.GET("/:site_id/cp", h.GetConnectionPoint)
	edev.PUT("/:site_id/cp", h.PutConnectionPoint)

	edev.GET("/:site_id/der", h.GetDER)
	edev.GET("/:site_id/der/dercap", h.GetDERCapability)
	edev.PUT("/:site_id/der/dercap", h.PutDERCapability)
	edev.GET("/:site_id/der/derg", h.GetDERSettings)
	edev.PUT("/:site_id/der/derg", h.PutDERSettings)
	edev.GET("/:site_id/der/dera", h.GetDERAvailability)
	edev.PUT("/:site_id/der/dera", h.PutDERAvailability)
	edev.GET("/:site_id/der/ders", h.GetDERStatus)
	edev.PUT("/:site_id/der/ders", h.PutDERStatus)

	edev.GET("/:site_id/derp", h.ListDERPrograms)
	edev.GET("/:site_id/derp/:derp_id", h.GetDERProgram)
	edev.GET("/:site_id/derp/:derp_id/actderc", h.ListActiveDERControls)
	edev.GET("/:site_id/derp/:derp_id/dderc", h.GetDefaultDERControl)
	edev.GET("/:site_id/derp/:derp_id/derc", h.ListDERControlsAtTime)
	edev.GET("/:site_id/derp/:derp_id/derc/:doe_id", h.GetDERControl)

	edev.GET("/:site_id/tp", h.ListSiteTariffProfiles)
	edev.GET("/:site_id/tp/:tariff_id", h.GetSiteTariffProfile)
	edev.GET("/:site_id/tp/:tariff_id/rc", h.ListRateComponents)
	edev.GET("/:site_id/tp/:tariff_id/rc/:day/:prt/tti", h.ListTimeTariffIntervals)
	edev.GET("/:site_id/tp/:tariff_id/rc/:day/:prt/tti/:time_of_day/cti", h.GetConsumptionTariffIntervalList)

	edev.GET("/:site_id/sub", h.ListSubscriptions)
	edev.POST("/:site_id/sub", h.CreateSubscription)
	edev.DELETE("/:site_id/sub/:sub_id", h.DeleteSubscription)

	tp := api.Group("/tp")
	tp.GET("", h.ListTariffProfiles)
	tp.GET("/:tariff_id", h.GetTariffProfile)

	mup := api.Group("/mup")
	mup.GET("", h.ListMirrorUsagePoints)
	mup.POST("", h.CreateMirrorUsagePoint)
	mup.GET("/:mup_id", h.GetMirrorUsagePoint)
	mup.PUT("/:mup_id", h.PutMirrorUsagePoint)
	mup.DELETE("/:mup_id", h.DeleteMirrorUsagePoint)
	mup.GET("/:mup_id/mr", h.GetMirrorMeterReading)
	mup.POST("/:mup_id", h.UploadReadings)
}

func writeRecoveredError(c *gin.Context) {
	c.String(http.StatusInternalServerError, "internal error")
}
