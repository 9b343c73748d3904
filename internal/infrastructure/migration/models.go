package migration

import (
	"sep2utility/internal/domain/aggregator"
	"sep2utility/internal/domain/calculationlog"
	"sep2utility/internal/domain/reading"
	"sep2utility/internal/domain/serverconfig"
	"sep2utility/internal/domain/site"
	"sep2utility/internal/domain/sitecontrol"
	"sep2utility/internal/domain/subscription"
	"sep2utility/internal/domain/tariff"
)

// DomainModels lists every GORM model this server persists, for use with
// Manager.Migrate's GORM AutoMigrate strategy and the migrate CLI's generate-schema command.
func DomainModels() []interface{} {
	return []interface{}{
		&aggregator.Aggregator{},
		&aggregator.ArchiveAggregator{},
		&aggregator.AggregatorDomain{},
		&aggregator.Certificate{},
		&aggregator.AggregatorCertificateAssignment{},

		&site.Site{},
		&site.ArchiveSite{},
		&site.SiteDER{},
		&site.ArchiveSiteDER{},
		&site.SiteDERRating{},
		&site.ArchiveSiteDERRating{},
		&site.SiteDERSetting{},
		&site.ArchiveSiteDERSetting{},
		&site.SiteDERAvailability{},
		&site.ArchiveSiteDERAvailability{},
		&site.SiteDERStatus{},
		&site.ArchiveSiteDERStatus{},

		&sitecontrol.SiteControlGroup{},
		&sitecontrol.ArchiveSiteControlGroup{},
		&sitecontrol.DynamicOperatingEnvelope{},
		&sitecontrol.ArchiveDynamicOperatingEnvelope{},
		&sitecontrol.SiteControlGroupDefault{},
		&sitecontrol.DefaultSiteControl{},

		&tariff.Tariff{},
		&tariff.ArchiveTariff{},
		&tariff.TariffGeneratedRate{},
		&tariff.ArchiveTariffGeneratedRate{},

		&reading.SiteReadingType{},
		&reading.ArchiveSiteReadingType{},
		&reading.SiteReading{},
		&reading.ArchiveSiteReading{},

		&subscription.ResourceSubscription{},
		&subscription.ArchiveResourceSubscription{},

		&calculationlog.CalculationLog{},

		&serverconfig.RuntimeServerConfig{},
	}
}
