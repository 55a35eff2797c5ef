// Package migration creates the enum types and tables of the club schema.
package migration

import (
	"fmt"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"

	"gorm.io/gorm"
)

// EnumSQL is idempotent; GORM AutoMigrate cannot create postgres enum types itself.
var EnumSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	enum("user_role", "USER", "TRENER", "ADMINISTRATOR"),
	enum("subscription_status", "active", "past_due", "cancelled", "incomplete"),
	enum("payment_status", "paid", "pending", "failed"),
	enum("news_type", "announcement", "event", "cancellation"),
}

func enum(name string, values ...string) string {
	quoted := ""
	for i, v := range values {
		if i > 0 {
			quoted += ", "
		}
		quoted += "'" + v + "'"
	}
	return fmt.Sprintf(`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = '%s') THEN CREATE TYPE %s AS ENUM (%s); END IF; END $$;`, name, name, quoted)
}

// Step reports progress to the caller.
type Step func(message string)

func Run(db *gorm.DB, progress Step) error {
	if progress == nil {
		progress = func(string) {}
	}

	progress("Setting up extensions and enums")
	for _, sql := range EnumSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup sql: %w", err)
		}
	}

	models := model.All()
	progress(fmt.Sprintf("Running AutoMigrate for %d tables", len(models)))
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
