package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"evaltrack/internal/domain/auth"
	"evaltrack/internal/domain/reports"
	"evaltrack/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePermissions(ctx, pool); err != nil {
		return err
	}

	roleIDs, err := ensureRoles(ctx, pool)
	if err != nil {
		return err
	}

	if err := ensureRolePermissions(ctx, pool, roleIDs); err != nil {
		return err
	}

	if err := ensurePeriods(ctx, pool); err != nil {
		return err
	}

	return ensureAdminUser(ctx, pool, roleIDs[auth.RoleAdmin], cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, perm := range auth.DefaultPermissions {
		_, err := pool.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	roleIDs := make(map[string]string, len(auth.RolePermissions))
	for role := range auth.RolePermissions {
		var id string
		err := pool.QueryRow(ctx, `
      INSERT INTO roles (name) VALUES ($1)
      ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
      RETURNING id
    `, role).Scan(&id)
		if err != nil {
			return nil, err
		}
		roleIDs[role] = id
	}
	return roleIDs, nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool, roleIDs map[string]string) error {
	for role, perms := range auth.RolePermissions {
		roleID, ok := roleIDs[role]
		if !ok {
			continue
		}
		for _, perm := range perms {
			_, err := pool.Exec(ctx, `
        INSERT INTO role_permissions (role_id, permission_id)
        SELECT $1, p.id FROM permissions p WHERE p.key = $2
        ON CONFLICT DO NOTHING
      `, roleID, perm)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func ensurePeriods(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range reports.CanonicalPeriods {
		_, err := pool.Exec(ctx, "INSERT INTO periods (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, roleID, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (name, email, password_hash, role_id, status, date_registered)
    VALUES ('Administrator', $1, $2, $3, 'active', CURRENT_DATE)
  `, email, hash, roleID)
	return err
}
