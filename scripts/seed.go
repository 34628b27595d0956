package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type SeedConfig struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Items []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Available   bool   `yaml:"available"`
		} `yaml:"items"`
	} `yaml:"users"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath = flag.String("seed", "configs/seed.yaml", "path to seed.yaml")
		dbPath   = flag.String("db", "./data/shareit.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var cfg SeedConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	if len(cfg.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := 0
	items := 0
	for _, u := range cfg.Users {
		if u.Email == "" {
			continue
		}

		// Users are keyed by email so reruns do not duplicate them.
		owner, err := db.GetUserByEmail(ctx, u.Email)
		if errors.Is(err, database.ErrNotFound) {
			owner = &models.User{Name: u.Name, Email: u.Email}
			if err = db.CreateUser(ctx, owner); err != nil {
				return fmt.Errorf("create user %s: %w", u.Email, err)
			}
			users++
		} else if err != nil {
			return fmt.Errorf("get user %s: %w", u.Email, err)
		}

		existing, err := db.GetItemsByOwner(ctx, owner.ID)
		if err != nil {
			return fmt.Errorf("list items for %s: %w", u.Email, err)
		}
		owned := make(map[string]bool, len(existing))
		for _, it := range existing {
			owned[it.Name] = true
		}

		for _, it := range u.Items {
			if it.Name == "" || owned[it.Name] {
				continue
			}
			item := &models.Item{
				Name:        it.Name,
				Description: it.Description,
				OwnerID:     owner.ID,
				Available:   it.Available,
			}
			if err = db.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("create item %s: %w", it.Name, err)
			}
			items++
		}
	}

	fmt.Printf("done: users=%d items=%d\n", users, items)
	return nil
}
