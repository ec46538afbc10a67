package directory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FahimJadid/revamp-app/internal/auth"
	"github.com/FahimJadid/revamp-app/internal/db"

	"github.com/google/uuid"
)

// PostgresDirectory resolves identities against the users table.
type PostgresDirectory struct {
	db *db.DB
}

func NewPostgresDirectory(db *db.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

const selectByProvider = `
	SELECT id, provider, provider_user_id, display_name, email, created_at
	FROM users
	WHERE provider = $1
	  AND provider_user_id = $2
`

func (d *PostgresDirectory) ResolveOrCreate(
	ctx context.Context,
	profile *auth.Profile,
) (*User, error) {

	if profile == nil || profile.ProviderID == "" {
		return nil, errors.New("directory: profile missing provider subject")
	}

	user, err := d.scanUser(d.db.QueryRowContext(ctx, selectByProvider,
		profile.Provider,
		profile.ProviderID,
	))
	if err == nil {
		return user, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	// First login for this subject. ON CONFLICT DO NOTHING covers the race
	// where two callbacks for the same subject insert concurrently; the
	// loser re-selects the winner's row.
	var id uuid.UUID
	err = d.db.QueryRowContext(ctx, `
		INSERT INTO users (provider, provider_user_id, display_name, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_user_id) DO NOTHING
		RETURNING id
	`,
		profile.Provider,
		profile.ProviderID,
		profile.DisplayName,
		profile.Email,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return d.scanUser(d.db.QueryRowContext(ctx, selectByProvider,
			profile.Provider,
			profile.ProviderID,
		))
	}
	if err != nil {
		return nil, err
	}

	return d.scanUser(d.db.QueryRowContext(ctx, `
		SELECT id, provider, provider_user_id, display_name, email, created_at
		FROM users
		WHERE id = $1
	`, id))
}

func (d *PostgresDirectory) ByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil // malformed ids never resolve
	}

	user, err := d.scanUser(d.db.QueryRowContext(ctx, `
		SELECT id, provider, provider_user_id, display_name, email, created_at
		FROM users
		WHERE id = $1
	`, uid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (d *PostgresDirectory) scanUser(row *sql.Row) (*User, error) {
	var (
		user User
		id   uuid.UUID
	)
	err := row.Scan(
		&id,
		&user.Provider,
		&user.ProviderID,
		&user.DisplayName,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.ID = id.String()
	return &user, nil
}
