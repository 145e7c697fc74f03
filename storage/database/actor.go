package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/educhain/backend/core/actor"
)

// actorRepository is the hosted-backend directory: Actor profiles live in the
// `profiles` table.
type actorRepository struct {
	db *sqlx.DB
}

var _ actor.Repository = (*actorRepository)(nil) // interface compliance check

func NewActorRepository(db *sqlx.DB) actor.Repository {
	return &actorRepository{db: db}
}

type actorRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Email         string         `db:"email"`
	Role          string         `db:"role"`
	InstitutionID sql.NullString `db:"institution_id"`
	IsActive      bool           `db:"is_active"`
	PasswordHash  []byte         `db:"password_hash"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	LastLogin     sql.NullTime   `db:"last_login"`
}

func (row actorRow) toActor() (actor.Actor, error) {
	role, err := actor.ParseRole(row.Role)
	if err != nil {
		return actor.Actor{}, errors.Wrapf(err, "profile %s", row.ID)
	}
	act := actor.Actor{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Role:         role,
		IsActive:     row.IsActive,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.InstitutionID.Valid {
		act.InstitutionID = row.InstitutionID.String
	}
	if row.LastLogin.Valid {
		act.LastLogin = row.LastLogin.Time
	}
	return act, nil
}

func toRow(act actor.Actor) actorRow {
	row := actorRow{
		ID:           act.ID,
		Name:         act.Name,
		Email:        act.Email,
		Role:         act.Role.String(),
		IsActive:     act.IsActive,
		PasswordHash: act.PasswordHash,
		CreatedAt:    act.CreatedAt,
		UpdatedAt:    act.UpdatedAt,
	}
	if act.InstitutionID != "" {
		row.InstitutionID = sql.NullString{String: act.InstitutionID, Valid: true}
	}
	if !act.LastLogin.IsZero() {
		row.LastLogin = sql.NullTime{Time: act.LastLogin, Valid: true}
	}
	return row
}

const actorColumns = `id, name, email, role, institution_id, is_active, password_hash, created_at, updated_at, last_login`

func (repo *actorRepository) GetActorByID(ctx context.Context, id string) (actor.Actor, error) {
	var row actorRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+actorColumns+` FROM profiles WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return actor.Actor{}, actor.ErrNotFound
		}
		return actor.Actor{}, errors.Wrap(err, "getting profile by id")
	}
	return row.toActor()
}

func (repo *actorRepository) GetActorByEmail(ctx context.Context, email string) (actor.Actor, error) {
	var row actorRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+actorColumns+` FROM profiles WHERE email = $1`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return actor.Actor{}, actor.ErrNotFound
		}
		return actor.Actor{}, errors.Wrap(err, "getting profile by email")
	}
	return row.toActor()
}

func (repo *actorRepository) CheckEmailUniqueness(ctx context.Context, email string, excluded ...actor.Actor) error {
	query := `SELECT COUNT(*) FROM profiles WHERE email = ?`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, act := range excluded {
			ids = append(ids, act.ID)
		}
		query += ` AND id NOT IN (?)`
		var err error
		if query, args, err = sqlx.In(query, email, ids); err != nil {
			return errors.Wrap(err, "expanding exclusion list")
		}
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "counting profiles by email")
	}
	if count > 0 {
		return actor.ErrEmailExists
	}
	return nil
}

func (repo *actorRepository) CreateActor(ctx context.Context, act actor.Actor) (actor.Actor, error) {
	if act.ID == "" {
		act.ID = uuid.New().String()
	}
	row := toRow(act)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO profiles (`+actorColumns+`)
		VALUES (:id, :name, :email, :role, :institution_id, :is_active, :password_hash, :created_at, :updated_at, :last_login)`,
		row,
	)
	if err != nil {
		return actor.Actor{}, errors.Wrap(err, "inserting profile")
	}
	return act, nil
}

func (repo *actorRepository) UpdateActor(ctx context.Context, act actor.Actor) (actor.Actor, error) {
	row := toRow(act)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE profiles
		SET name = :name, email = :email, role = :role, institution_id = :institution_id,
		    is_active = :is_active, password_hash = :password_hash, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return actor.Actor{}, errors.Wrap(err, "updating profile")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return actor.Actor{}, actor.ErrNotFound
	}
	return act, nil
}

func (repo *actorRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	_, err := repo.db.ExecContext(ctx, `UPDATE profiles SET last_login = $1 WHERE id = $2`, t, id)
	return errors.Wrap(err, "setting last_login")
}
