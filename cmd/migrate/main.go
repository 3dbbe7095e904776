package main

import (
	"log"
	"os"

	"designhub-be/internal/model"
	"designhub-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Workspace{},
		&model.WorkspaceURL{},
		&model.WorkspaceMember{},
		&model.DesignRequest{},
		&model.SlackIntegration{},
		&model.SubscriptionPlan{},
		&model.WorkspaceSubscription{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views
	log.Println("Step 3: Creating Views...")

	postMigrationSQL := []string{
		// View: workspace_payment_history
		`CREATE OR REPLACE VIEW workspace_payment_history AS
		 SELECT ws.workspace_id, w.name AS workspace_name, sp.name AS plan_name, sp.price, ws.payment_status, ws.midtrans_transaction_id, ws.created_at AS payment_date
		 FROM workspace_subscriptions ws
		 JOIN workspaces w ON ws.workspace_id = w.id
		 JOIN subscription_plans sp ON ws.plan_id = sp.id
		 ORDER BY ws.created_at DESC;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
