package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"vehicletracker/internal/user"
	"vehicletracker/internal/vehicle"
	"vehicletracker/pkg/config"
	"vehicletracker/pkg/db"
)

// Seeds a dev database with an admin account and a few vehicles so the API
// is usable straight after migrations.
func main() {
	var (
		username = flag.String("admin-user", "admin", "admin username")
		email    = flag.String("admin-email", "admin@example.com", "admin email")
		password = flag.String("admin-password", "", "admin password (required)")
	)
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "missing -admin-password")
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open failed: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}

	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		exists, err := user.ExistsByUsernameOrEmail(ctx, tx, *username, *email)
		if err != nil {
			return err
		}
		if exists {
			fmt.Println("admin user already present, skipping")
		} else {
			admin := &user.User{
				ID:           uuid.NewString(),
				Username:     *username,
				Email:        *email,
				FullName:     "Fleet Administrator",
				Role:         user.RoleAdmin,
				IsActive:     true,
				PasswordHash: string(hash),
			}
			if err := user.Insert(ctx, tx, admin); err != nil {
				return err
			}
			fmt.Printf("created admin %q\n", *username)
		}

		samples := []vehicle.Vehicle{
			{Registration: "KAA123B", Make: "Toyota", Model: "Hilux"},
			{Registration: "KBC456D", Make: "Isuzu", Model: "D-Max"},
			{Registration: "KDA789E", Make: "Nissan", Model: "Navara"},
		}
		for _, v := range samples {
			existing, err := vehicle.ExistsByRegistration(ctx, tx, v.Registration, "")
			if err != nil {
				return err
			}
			if existing {
				continue
			}
			v.ID = uuid.NewString()
			v.Status = vehicle.StatusAvailable
			if err := vehicle.Insert(ctx, tx, &v); err != nil {
				return err
			}
			fmt.Printf("created vehicle %s\n", v.Registration)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("seed complete")
}
