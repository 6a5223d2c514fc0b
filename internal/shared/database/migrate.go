package database

import (
	"stagehand/internal/events"
	"stagehand/internal/members"
	"stagehand/internal/productions"
	"stagehand/internal/registrations"
	"stagehand/internal/shifts"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&members.Member{},
		&events.Event{},
		&shifts.Shift{},
		&registrations.Registration{},
		&productions.Production{},
		&productions.Performance{},
		&productions.CastAssignment{},
	)
}
