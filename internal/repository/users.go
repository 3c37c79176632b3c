package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"TRAVBUD_BACK-END/internal/models"
)

const userColumns = `id, name, email, password_hash, role, status, is_verified, photo, contact_number,
	bio, age, gender, current_location, travel_interests, visited_countries, created_at, updated_at`

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"status":    "status",
}

// UserRepository is the Postgres identity store.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.IsVerified,
		&u.Photo, &u.ContactNumber, &u.Bio, &u.Age, &u.Gender, &u.CurrentLocation,
		&u.TravelInterests, &u.VisitedCountries, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, status, is_verified, photo, contact_number,
			bio, age, gender, current_location, travel_interests, visited_countries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Status, u.IsVerified, u.Photo, u.ContactNumber,
		u.Bio, u.Age, u.Gender, u.CurrentLocation, nonNil(u.TravelInterests), nonNil(u.VisitedCountries),
		u.CreatedAt, u.UpdatedAt)
	return mapPgError(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

// FindSummaries resolves the public profile of every id that still exists.
func (r *UserRepository) FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error) {
	out := make(map[uuid.UUID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name, email, photo FROM users WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("query user summaries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Photo); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

func (r *UserRepository) FindMany(ctx context.Context, f models.UserFilter) ([]models.User, int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var b whereBuilder
	if f.SearchTerm != "" {
		p := b.arg("%" + escapeLike(f.SearchTerm) + "%")
		b.add(fmt.Sprintf("(name ILIKE %s OR email ILIKE %s)", p, p))
	}
	if f.Role != "" {
		b.add("role = " + b.arg(f.Role))
	}
	if f.Status != "" {
		b.add("status = " + b.arg(f.Status))
	}
	if f.IsVerified != nil {
		b.add("is_verified = " + b.arg(*f.IsVerified))
	}
	where := b.sql()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM users`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where +
		orderBy(userSortColumns, f.SortBy, f.SortOrder, "") +
		fmt.Sprintf(" LIMIT %s OFFSET %s", b.arg(f.Limit), b.arg(f.Offset()))
	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, f.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, p models.UserPatch) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var (
		b    whereBuilder
		sets []string
	)
	set := func(col string, v any) { sets = append(sets, col+" = "+b.arg(v)) }
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.PasswordHash != nil {
		set("password_hash", *p.PasswordHash)
	}
	if p.Photo != nil {
		set("photo", *p.Photo)
	}
	if p.ContactNumber != nil {
		set("contact_number", *p.ContactNumber)
	}
	if p.Bio != nil {
		set("bio", *p.Bio)
	}
	if p.Age != nil {
		set("age", *p.Age)
	}
	if p.Gender != nil {
		set("gender", *p.Gender)
	}
	if p.CurrentLocation != nil {
		set("current_location", *p.CurrentLocation)
	}
	if p.TravelInterests != nil {
		set("travel_interests", p.TravelInterests)
	}
	if p.VisitedCountries != nil {
		set("visited_countries", p.VisitedCountries)
	}
	if p.Role != nil {
		set("role", *p.Role)
	}
	if p.Status != nil {
		set("status", *p.Status)
	}
	if p.IsVerified != nil {
		set("is_verified", *p.IsVerified)
	}
	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = %s RETURNING `+userColumns,
		joinComma(sets), b.arg(id))
	return scanUser(r.db.QueryRow(ctx, query, b.args...))
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanUser(r.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id))
}
