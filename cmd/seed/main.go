// seed inserts a demo user with a handful of events into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/calendar-api/internal/password"
	"github.com/ErlanBelekov/calendar-api/internal/usecase"
	"github.com/joho/godotenv"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

type eventSpec struct {
	title       string
	description string
	offset      time.Duration
}

var events = []eventSpec{
	{"Standup", "daily sync", 24 * time.Hour},
	{"Dentist", "", 3 * 24 * time.Hour},
	{"Sprint review", "demo the calendar", 7 * 24 * time.Hour},
	{"Flight to Bishkek", "", 14 * 24 * time.Hour},
	{"Birthday dinner", "book a table", 30 * 24 * time.Hour},
}

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)

	digest, err := password.NewHasher(password.DefaultCost).Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user, err := users.Create(ctx, seedEmail, digest)
	if errors.Is(err, domain.ErrEmailTaken) {
		user, err = users.FindByEmail(ctx, seedEmail)
	}
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}

	eventUsecase := usecase.NewEventUsecase(postgres.NewEventRepository(pool))

	existing, err := eventUsecase.List(ctx, user.ID)
	if err != nil {
		log.Fatalf("list events: %v", err)
	}

	var inserted int
	if len(existing) == 0 {
		base := time.Now().UTC().Truncate(time.Hour)
		for _, spec := range events {
			_, err := eventUsecase.Create(ctx, user.ID, usecase.EventInput{
				Title:       spec.title,
				Description: spec.description,
				Date:        base.Add(spec.offset),
			})
			if err != nil {
				log.Fatalf("create event %q: %v", spec.title, err)
			}
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:           %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:        %s\n", user.ID)
	fmt.Printf("  Events created: %d  (%d already present)\n", inserted, len(existing))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: log in as the seed user")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:5000/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println("    # -> {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2: list the seeded events")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:5000/events -H \"Authorization: Bearer $JWT\"")
}
