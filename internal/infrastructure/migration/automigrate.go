package migration

import (
	"sep2utility/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.SubscriptionModel{},
		&models.SubscriptionPlanModel{},
		&models.SubscriptionTokenModel{},
		&models.SubscriptionHistoryModel{},
		&models.SubscriptionUsageModel{},
	}
}
