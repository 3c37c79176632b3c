package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"TRAVBUD_BACK-END/internal/models"
)

const tripColumns = `t.id, t.owner_id, t.destination, t.start_date, t.end_date, t.budget, t.travel_types,
	t.description, t.activities, t.photos, t.max_group_size, t.pending, t.approved, t.status,
	t.created_at, t.updated_at`

const tripWithOwnerFrom = ` FROM trips t JOIN users u ON u.id = t.owner_id`

// TripRepository is the Postgres trip store. Participation changes are single
// conditional UPDATE statements that recompute status in the same write, so
// concurrent requests against one trip cannot interleave a check and a set.
type TripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

// statusExpr is the SQL form of Trip.DeriveStatus. approved is the
// post-write approved count and now a timestamptz placeholder.
func statusExpr(approved, now string) string {
	return fmt.Sprintf(`CASE
		WHEN t.status = 'Cancelled' THEN 'Cancelled'
		WHEN t.end_date < %s THEN 'Completed'
		WHEN %s >= t.max_group_size THEN 'Full'
		ELSE 'Open' END`, now, approved)
}

func scanTrip(row pgx.Row, withOwner bool) (*models.Trip, error) {
	var t models.Trip
	dest := []any{&t.ID, &t.OwnerID, &t.Destination, &t.StartDate, &t.EndDate, &t.Budget, &t.TravelTypes,
		&t.Description, &t.Activities, &t.Photos, &t.MaxGroupSize, &t.Participants.Pending,
		&t.Participants.Approved, &t.Status, &t.CreatedAt, &t.UpdatedAt}
	var owner models.UserSummary
	if withOwner {
		dest = append(dest, &owner.Name, &owner.Email, &owner.Photo)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, mapPgError(err)
	}
	if withOwner {
		owner.ID = t.OwnerID
		t.Owner = &owner
	}
	return &t, nil
}

func collectTrips(rows pgx.Rows, withOwner bool) ([]models.Trip, error) {
	defer rows.Close()
	trips := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows, withOwner)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

func (r *TripRepository) Create(ctx context.Context, t *models.Trip) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO trips (id, owner_id, destination, start_date, end_date, budget, travel_types, description,
			activities, photos, max_group_size, pending, approved, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '{}', '{}', $12, $13, $14)`,
		t.ID, t.OwnerID, t.Destination, t.StartDate, t.EndDate, t.Budget, nonNil(t.TravelTypes),
		t.Description, nonNil(t.Activities), nonNil(t.Photos), t.MaxGroupSize, t.Status, t.CreatedAt, t.UpdatedAt)
	return mapPgError(err)
}

func (r *TripRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanTrip(r.db.QueryRow(ctx,
		`SELECT `+tripColumns+`, u.name, u.email, u.photo`+tripWithOwnerFrom+` WHERE t.id = $1`, id), true)
}

// buildTripFilter translates the listing filter. Status matches the derived
// status at f's reference time, not the stored column.
func buildTripFilter(f models.TripFilter, now time.Time) whereBuilder {
	var b whereBuilder
	if f.SearchTerm != "" {
		p := b.arg("%" + escapeLike(f.SearchTerm) + "%")
		b.add(fmt.Sprintf("(t.destination ILIKE %s OR t.description ILIKE %s)", p, p))
	}
	if f.Status != "" {
		nowArg := b.arg(now) + "::timestamptz"
		b.add(fmt.Sprintf("(%s) = %s", statusExpr("cardinality(t.approved)", nowArg), b.arg(string(f.Status))))
	}
	if f.MinBudget != nil {
		b.add("t.budget >= " + b.arg(*f.MinBudget))
	}
	if f.MaxBudget != nil {
		b.add("t.budget <= " + b.arg(*f.MaxBudget))
	}
	if len(f.TravelTypes) > 0 {
		b.add("t.travel_types && " + b.arg(f.TravelTypes) + "::text[]")
	}
	if f.StartFrom != nil {
		b.add("t.start_date >= " + b.arg(*f.StartFrom))
	}
	if f.EndBy != nil {
		b.add("t.end_date <= " + b.arg(*f.EndBy))
	}
	if f.OwnerID != nil {
		b.add("t.owner_id = " + b.arg(*f.OwnerID))
	}
	return b
}

func (r *TripRepository) FindMany(ctx context.Context, f models.TripFilter, now time.Time) ([]models.Trip, int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	b := buildTripFilter(f, now)
	where := b.sql()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM trips t`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count trips: %w", err)
	}

	query := `SELECT ` + tripColumns + `, u.name, u.email, u.photo` + tripWithOwnerFrom + where +
		orderBy(models.TripSortColumns, f.SortBy, f.SortOrder, "t.") +
		fmt.Sprintf(" LIMIT %s OFFSET %s", b.arg(f.Limit), b.arg(f.Offset()))
	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query trips: %w", err)
	}
	trips, err := collectTrips(rows, true)
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *TripRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM trips WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}

func (r *TripRepository) FindByPendingUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+tripColumns+`, u.name, u.email, u.photo`+tripWithOwnerFrom+
		` WHERE $1::uuid = ANY(t.pending) ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query join requests: %w", err)
	}
	return collectTrips(rows, true)
}

// FindByApprovedUser lists the trips a user takes part in.
func (r *TripRepository) FindByApprovedUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+tripColumns+`, u.name, u.email, u.photo`+tripWithOwnerFrom+
		` WHERE $1::uuid = ANY(t.approved) ORDER BY t.start_date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query joined trips: %w", err)
	}
	return collectTrips(rows, true)
}

// Update writes the patch and recomputes status in one transaction. A patch
// shrinking max_group_size below the approved count matches nothing.
func (r *TripRepository) Update(ctx context.Context, id uuid.UUID, p models.TripPatch, now time.Time) (*models.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var (
		b    whereBuilder
		sets []string
	)
	set := func(col string, v any) { sets = append(sets, col+" = "+b.arg(v)) }
	if p.Destination != nil {
		set("destination", *p.Destination)
	}
	if p.StartDate != nil {
		set("start_date", *p.StartDate)
	}
	if p.EndDate != nil {
		set("end_date", *p.EndDate)
	}
	if p.Budget != nil {
		set("budget", *p.Budget)
	}
	if p.TravelTypes != nil {
		set("travel_types", p.TravelTypes)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Activities != nil {
		set("activities", p.Activities)
	}
	if p.Photos != nil {
		set("photos", p.Photos)
	}
	if p.MaxGroupSize != nil {
		set("max_group_size", *p.MaxGroupSize)
	}
	set("updated_at", now)

	b.add("t.id = " + b.arg(id))
	if p.MaxGroupSize != nil {
		b.add(fmt.Sprintf("cardinality(t.approved) <= %s", b.arg(*p.MaxGroupSize)))
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE trips AS t SET %s%s`, joinComma(sets), b.sql()), b.args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNoMatch
	}

	t, err := scanTrip(tx.QueryRow(ctx, `UPDATE trips AS t SET status = `+
		statusExpr("cardinality(t.approved)", "$2::timestamptz")+
		` WHERE t.id = $1 RETURNING `+tripColumns, id, now), false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

func (r *TripRepository) Delete(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanTrip(r.db.QueryRow(ctx, `DELETE FROM trips AS t WHERE t.id = $1 RETURNING `+tripColumns, id), false)
}

// conditional runs a guarded single-row UPDATE, reporting ErrNoMatch when the
// guard rejects it.
func (r *TripRepository) conditional(ctx context.Context, query string, args ...any) (*models.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	t, err := scanTrip(r.db.QueryRow(ctx, query, args...), false)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoMatch
	}
	return t, err
}

// AddPending appends userID to pending unless the user owns the trip, is
// already a participant, or the trip no longer accepts requests.
func (r *TripRepository) AddPending(ctx context.Context, tripID, userID uuid.UUID, now time.Time) (*models.Trip, error) {
	return r.conditional(ctx, `
		UPDATE trips AS t
		SET pending = array_append(t.pending, $2::uuid),
			status = `+statusExpr("cardinality(t.approved)", "$3::timestamptz")+`,
			updated_at = $3
		WHERE t.id = $1
			AND t.owner_id <> $2::uuid
			AND NOT ($2::uuid = ANY(t.pending))
			AND NOT ($2::uuid = ANY(t.approved))
			AND t.status <> 'Cancelled'
			AND t.end_date >= $3::timestamptz
		RETURNING `+tripColumns, tripID, userID, now)
}

func (r *TripRepository) RemovePending(ctx context.Context, tripID, userID uuid.UUID, now time.Time) (*models.Trip, error) {
	return r.conditional(ctx, `
		UPDATE trips AS t
		SET pending = array_remove(t.pending, $2::uuid),
			status = `+statusExpr("cardinality(t.approved)", "$3::timestamptz")+`,
			updated_at = $3
		WHERE t.id = $1 AND $2::uuid = ANY(t.pending)
		RETURNING `+tripColumns, tripID, userID, now)
}

// Approve moves userID from pending to approved. With enforceCapacity the
// write also requires a free seat.
func (r *TripRepository) Approve(ctx context.Context, tripID, userID uuid.UUID, now time.Time, enforceCapacity bool) (*models.Trip, error) {
	guard := ""
	if enforceCapacity {
		guard = " AND cardinality(t.approved) < t.max_group_size"
	}
	return r.conditional(ctx, `
		UPDATE trips AS t
		SET pending = array_remove(t.pending, $2::uuid),
			approved = array_append(t.approved, $2::uuid),
			status = `+statusExpr("cardinality(t.approved) + 1", "$3::timestamptz")+`,
			updated_at = $3
		WHERE t.id = $1
			AND $2::uuid = ANY(t.pending)
			AND t.status <> 'Cancelled'
			AND t.end_date >= $3::timestamptz`+guard+`
		RETURNING `+tripColumns, tripID, userID, now)
}

// Cancel marks the trip Cancelled unless it has already ended.
func (r *TripRepository) Cancel(ctx context.Context, tripID uuid.UUID, now time.Time) (*models.Trip, error) {
	return r.conditional(ctx, `
		UPDATE trips AS t
		SET status = 'Cancelled', updated_at = $2
		WHERE t.id = $1 AND t.status <> 'Completed' AND t.end_date >= $2::timestamptz
		RETURNING `+tripColumns, tripID, now)
}
