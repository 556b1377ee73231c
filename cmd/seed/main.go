// Command main runs the database seeder for the Mushroom Service backend.
package main

import (
	"context"
	"flag"
	"log"

	"mushroomservice/internal/config"
	"mushroomservice/internal/database"
	"mushroomservice/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of fake dev users to create")
	devData := flag.Bool("dev", false, "Also create fake users, posts and comments")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	adminPassword := flag.String("admin-password", "ChangeMe#Mushroom1", "Bootstrap password for seeded admin accounts")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.EnsureAdmins(ctx, cfg.AdminEmails, *adminPassword); err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}
	if err := s.SeedRecipes(ctx); err != nil {
		log.Fatalf("Recipe seeding failed: %v", err)
	}
	if err := s.SeedProducts(ctx); err != nil {
		log.Fatalf("Product seeding failed: %v", err)
	}

	if *devData {
		if err := s.DevContent(ctx, *numUsers); err != nil {
			log.Fatalf("Dev content seeding failed: %v", err)
		}
		log.Printf("Seeded %d dev users with posts and comments", *numUsers)
	}

	log.Println("Seeding complete")
}
