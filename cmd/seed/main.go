// Copyright (c) 2026 Adminkit. All rights reserved.

// Command seed populates an EMPTY database with a starter admin, manager,
// and viewer account plus three sample projects.
//
// It is idempotent at the run level: if any account exists the run is a
// no-op, so it is safe to execute on every deployment.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/huyld/adminkit/internal/platform/config"
	"github.com/huyld/adminkit/internal/platform/migration"
	pgstore "github.com/huyld/adminkit/internal/platform/postgres"
	"github.com/huyld/adminkit/internal/platform/sec"
	"github.com/huyld/adminkit/internal/project"
	"github.com/huyld/adminkit/pkg/uuid"
)

type seedUser struct {
	email    string
	fullName string
	password string
	role     sec.Role
}

type seedProject struct {
	name        string
	description string
	status      project.Status
	priority    project.Priority
	budgetCents int64
	ownerEmail  string
}

var seedUsers = []seedUser{
	{"admin@example.com", "Admin User", "admin123", sec.RoleAdmin},
	{"manager@example.com", "Manager User", "manager123", sec.RoleManager},
	{"viewer@example.com", "Viewer User", "viewer123", sec.RoleViewer},
}

var seedProjects = []seedProject{
	{
		name:        "Website Redesign",
		description: "Complete website overhaul with modern design",
		status:      project.StatusActive,
		priority:    project.PriorityHigh,
		budgetCents: 50_000_00,
		ownerEmail:  "admin@example.com",
	},
	{
		name:        "Mobile App",
		description: "iOS and Android app development",
		status:      project.StatusDraft,
		priority:    project.PriorityMedium,
		budgetCents: 100_000_00,
		ownerEmail:  "manager@example.com",
	},
	{
		name:        "API Integration",
		description: "Third-party payment and shipping integrations",
		status:      project.StatusActive,
		priority:    project.PriorityCritical,
		budgetCents: 25_000_00,
		ownerEmail:  "admin@example.com",
	},
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "adminkit-seed"))

	cfg, err := config.Load()
	must(log, err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	var userCount int
	must(log, pool.QueryRow(ctx, `SELECT COUNT(*) FROM core.account`).Scan(&userCount), "count accounts")
	if userCount > 0 {
		log.Info("database already seeded", slog.Int("accounts", userCount))
		return
	}

	hasher := sec.NewPasswordHasher(cfg.BcryptCost)
	now := time.Now()

	// One transaction: the seed either lands whole or not at all.
	err = pgstore.WithTx(ctx, pool, func(tx pgx.Tx) error {
		idsByEmail := map[string]string{}

		for _, u := range seedUsers {
			passwordHash, err := hasher.Hash(u.password)
			if err != nil {
				return err
			}

			id := uuid.New()
			idsByEmail[u.email] = id

			if _, err := tx.Exec(ctx, `
				INSERT INTO core.account (
					id, email, passwordhash, fullname, role, isactive,
					passwordchangedat, createdat, updatedat
				) VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6, $6)`,
				id, u.email, passwordHash, u.fullName, u.role, now,
			); err != nil {
				return err
			}
		}

		for _, p := range seedProjects {
			ownerID := idsByEmail[p.ownerEmail]
			if _, err := tx.Exec(ctx, `
				INSERT INTO core.project (
					id, name, description, status, priority, budgetcents,
					ownerid, createdat, updatedat
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
				uuid.New(), p.name, p.description, p.status, p.priority,
				p.budgetCents, ownerID, now,
			); err != nil {
				return err
			}
		}

		return nil
	})
	must(log, err, "seed database")

	log.Info("database seeded",
		slog.Int("accounts", len(seedUsers)),
		slog.Int("projects", len(seedProjects)),
	)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("seed failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
