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

const reviewColumns = `r.id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at, u.name, u.email, u.photo`

type ReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func scanReview(row pgx.Row) (*models.WebReview, error) {
	var (
		rv models.WebReview
		u  models.UserSummary
	)
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
		&u.Name, &u.Email, &u.Photo); err != nil {
		return nil, mapPgError(err)
	}
	u.ID = rv.UserID
	rv.User = &u
	return &rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.WebReview) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO web_reviews (id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rv.ID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt)
	return mapPgError(err)
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.WebReview, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+`
		FROM web_reviews r JOIN users u ON u.id = r.user_id WHERE r.id = $1`, id))
}

// FindLatest returns up to limit reviews, newest first.
func (r *ReviewRepository) FindLatest(ctx context.Context, limit int) ([]models.WebReview, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+reviewColumns+`
		FROM web_reviews r JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	out := []models.WebReview{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepository) Update(ctx context.Context, id uuid.UUID, p models.WebReviewPatch) (*models.WebReview, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var (
		b    whereBuilder
		sets []string
	)
	if p.Rating != nil {
		sets = append(sets, "rating = "+b.arg(*p.Rating))
	}
	if p.Comment != nil {
		sets = append(sets, "comment = "+b.arg(*p.Comment))
	}
	sets = append(sets, "updated_at = "+b.arg(time.Now().UTC()))

	query := fmt.Sprintf(`
		WITH updated AS (UPDATE web_reviews SET %s WHERE id = %s RETURNING *)
		SELECT `+reviewColumns+` FROM updated r JOIN users u ON u.id = r.user_id`,
		joinComma(sets), b.arg(id))
	return scanReview(r.db.QueryRow(ctx, query, b.args...))
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM web_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
