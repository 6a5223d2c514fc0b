package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"stagehand/internal/events"
	"stagehand/internal/members"
	"stagehand/internal/productions"
	"stagehand/internal/registrations"
	"stagehand/internal/shared/config"
	"stagehand/internal/shared/database"
	"stagehand/internal/shifts"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Stagehand database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"registrations",
		"cast_assignments",
		"performances",
		"productions",
		"shifts",
		"events",
		"members",
	}

	gormDB := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := gormDB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	gormDB := s.db.GetPostgreSQL()

	admin := &members.Member{
		ID:        uuid.New(),
		FirstName: "Alex",
		LastName:  "Moreau",
		Email:     "alex.moreau@stagehand.local",
		Role:      members.RoleAdmin,
		Active:    true,
	}
	crew := []*members.Member{
		{ID: uuid.New(), FirstName: "Priya", LastName: "Nair", Email: "priya.nair@stagehand.local", Role: members.RoleMember, Active: true},
		{ID: uuid.New(), FirstName: "Jonas", LastName: "Keller", Email: "jonas.keller@stagehand.local", Role: members.RoleMember, Active: true},
		{ID: uuid.New(), FirstName: "Dana", LastName: "Velasquez", Email: "dana.velasquez@stagehand.local", Role: members.RoleMember, Active: true},
	}
	if err := gormDB.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	for _, m := range crew {
		if err := gormDB.WithContext(ctx).Create(m).Error; err != nil {
			return fmt.Errorf("failed to seed member: %w", err)
		}
	}
	fmt.Printf("  seeded %d members (admin: %s)\n", len(crew)+1, admin.Email)

	// One published event next weekend with an explicit deadline, one with
	// the fallback buffer
	saturday := time.Now().AddDate(0, 0, 8).Truncate(time.Hour)
	deadline := saturday.Add(-48 * time.Hour)

	gala := &events.Event{
		ID:                   uuid.New(),
		Name:                 "Autumn Gala",
		Description:          "Season opening night with reception",
		Venue:                "Main Hall",
		StartsAt:             saturday,
		EndsAt:               saturday.Add(5 * time.Hour),
		CancellationDeadline: &deadline,
		Status:               events.StatusPublished,
		CreatedBy:            admin.ID,
	}
	matinee := &events.Event{
		ID:          uuid.New(),
		Name:        "Sunday Matinee",
		Description: "Family afternoon performance",
		Venue:       "Main Hall",
		StartsAt:    saturday.Add(20 * time.Hour),
		EndsAt:      saturday.Add(23 * time.Hour),
		Status:      events.StatusPublished,
		CreatedBy:   admin.ID,
	}
	for _, e := range []*events.Event{gala, matinee} {
		if err := gormDB.WithContext(ctx).Create(e).Error; err != nil {
			return fmt.Errorf("failed to seed event: %w", err)
		}
	}
	fmt.Println("  seeded 2 events")

	shiftList := []*shifts.Shift{
		{ID: uuid.New(), EventID: gala.ID, Role: "Box Office", StartsAt: saturday.Add(-time.Hour), EndsAt: saturday.Add(2 * time.Hour), Capacity: 2, WaitlistEnabled: true, Visibility: shifts.VisibilityPublic},
		{ID: uuid.New(), EventID: gala.ID, Role: "Usher", StartsAt: saturday, EndsAt: saturday.Add(5 * time.Hour), Capacity: 4, WaitlistEnabled: true, Visibility: shifts.VisibilityPublic},
		{ID: uuid.New(), EventID: gala.ID, Role: "Stage Manager", StartsAt: saturday.Add(-2 * time.Hour), EndsAt: saturday.Add(6 * time.Hour), Capacity: 1, WaitlistEnabled: false, Visibility: shifts.VisibilityInternal},
		{ID: uuid.New(), EventID: matinee.ID, Role: "Box Office", StartsAt: saturday.Add(19 * time.Hour), EndsAt: saturday.Add(21 * time.Hour), Capacity: 1, WaitlistEnabled: true, Visibility: shifts.VisibilityPublic},
		{ID: uuid.New(), EventID: matinee.ID, Role: "Usher", StartsAt: saturday.Add(20 * time.Hour), EndsAt: saturday.Add(23 * time.Hour), Capacity: 2, WaitlistEnabled: true, Visibility: shifts.VisibilityPublic},
	}
	for _, sh := range shiftList {
		if err := gormDB.WithContext(ctx).Create(sh).Error; err != nil {
			return fmt.Errorf("failed to seed shift: %w", err)
		}
	}
	fmt.Printf("  seeded %d shifts\n", len(shiftList))

	// A registration filling part of the usher shift so availability reads
	// show real numbers
	reg := &registrations.Registration{
		ID:           uuid.New(),
		ShiftID:      shiftList[1].ID,
		MemberID:     &crew[0].ID,
		ContactName:  crew[0].FullName(),
		ContactEmail: crew[0].Email,
		Status:       registrations.StatusActive,
	}
	if err := gormDB.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("failed to seed registration: %w", err)
	}
	fmt.Println("  seeded 1 registration")

	production := &productions.Production{
		ID:        uuid.New(),
		Name:      "The Tempest",
		Season:    "2026/27",
		CreatedBy: admin.ID,
	}
	if err := gormDB.WithContext(ctx).Create(production).Error; err != nil {
		return fmt.Errorf("failed to seed production: %w", err)
	}

	performances := []*productions.Performance{
		{ID: uuid.New(), ProductionID: production.ID, EventID: &gala.ID},
		{ID: uuid.New(), ProductionID: production.ID, EventID: &matinee.ID},
		{ID: uuid.New(), ProductionID: production.ID}, // not scheduled yet
	}
	for _, p := range performances {
		if err := gormDB.WithContext(ctx).Create(p).Error; err != nil {
			return fmt.Errorf("failed to seed performance: %w", err)
		}
	}

	cast := []*productions.CastAssignment{
		{ID: uuid.New(), ProductionID: production.ID, Role: "Usher", MemberID: &crew[1].ID, ContactName: crew[1].FullName(), ContactEmail: crew[1].Email},
		{ID: uuid.New(), ProductionID: production.ID, Role: "Box Office", MemberID: &crew[2].ID, ContactName: crew[2].FullName(), ContactEmail: crew[2].Email},
		{ID: uuid.New(), ProductionID: production.ID, Role: "Usher", ContactName: "Marta Lindgren", ContactEmail: "marta.lindgren@example.org"},
	}
	for _, c := range cast {
		if err := gormDB.WithContext(ctx).Create(c).Error; err != nil {
			return fmt.Errorf("failed to seed cast assignment: %w", err)
		}
	}
	fmt.Printf("  seeded production %q with %d performances and %d cast assignments\n",
		production.Name, len(performances), len(cast))

	return nil
}
