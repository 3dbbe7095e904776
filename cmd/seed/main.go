package main

import (
	"log"
	"os"

	"designhub-be/internal/model"
	"designhub-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding Subscription Plans...")

	plans := []model.SubscriptionPlan{
		{
			Name:              "Free",
			Slug:              "free",
			Description:       "小規模チーム向けの無料プラン",
			Tagline:           "まずはお試し",
			Price:             0,
			BillingPeriod:     "monthly",
			MaxActiveRequests: 3,
			MaxMembers:        5,
			IsActive:          true,
			SortOrder:         1,
		},
		{
			Name:                    "Standard",
			Slug:                    "standard",
			Description:             "Slack連携とAIチャット受付を含むスタンダードプラン",
			Tagline:                 "デザイン依頼を効率化",
			Price:                   49,
			TaxRate:                 0.1,
			BillingPeriod:           "monthly",
			MaxActiveRequests:       20,
			MaxMembers:              20,
			SlackIntegrationEnabled: true,
			AiChatEnabled:           true,
			IsMostPopular:           true,
			IsActive:                true,
			SortOrder:               2,
		},
		{
			Name:                    "Business",
			Slug:                    "business",
			Description:             "無制限の依頼枠とメンバー数のビジネスプラン",
			Tagline:                 "チーム全体で使い倒す",
			Price:                   149,
			TaxRate:                 0.1,
			BillingPeriod:           "monthly",
			MaxActiveRequests:       -1,
			MaxMembers:              -1,
			SlackIntegrationEnabled: true,
			AiChatEnabled:           true,
			IsActive:                true,
			SortOrder:               3,
		},
	}

	for _, p := range plans {
		// Check if plan with this slug already exists
		var existing model.SubscriptionPlan
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			color.Yellow("Plan '%s' already exists, skipping...", p.Slug)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			color.Red("Error creating plan '%s': %v", p.Slug, err)
		} else {
			color.Green("Created plan: %s (%s)", p.Name, p.Slug)
		}
	}

	color.Cyan("Plan seeding completed!")
}
