package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/models"

	"go.uber.org/zap"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	var data any
	if len(n.Data) > 0 {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("marshal notification data: %w", err)
		}
		data = string(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, data, action_url, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, false, $8)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, data, n.ActionURL, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", mapPgError(err))
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert notification: %d rows affected", tag.RowsAffected())
	}
	return nil
}

// List returns the page, the matching total and the caller's unread count.
func (r *NotificationRepository) List(ctx context.Context, f models.NotificationFilter) ([]models.Notification, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var unread int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND read = false`, f.UserID,
	).Scan(&unread); err != nil {
		return nil, 0, 0, fmt.Errorf("count unread notifications: %w", err)
	}

	var b whereBuilder
	b.add("user_id = " + b.arg(f.UserID))
	if f.UnreadOnly {
		b.add("read = false")
	}
	if f.Type != "" {
		b.add("type = " + b.arg(f.Type))
	}
	where := b.sql()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM notifications`+where, b.args...).Scan(&total); err != nil {
		return nil, 0, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := `SELECT id, user_id, type, title, message, data, action_url, read, created_at, read_at
		FROM notifications` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT %s OFFSET %s", b.arg(f.Limit), b.arg(f.Offset()))
	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	items := make([]models.Notification, 0, f.Limit)
	for rows.Next() {
		var (
			n       models.Notification
			dataRaw []byte
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &dataRaw, &n.ActionURL,
			&n.Read, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, 0, 0, fmt.Errorf("scan notification: %w", err)
		}
		if len(dataRaw) > 0 && string(dataRaw) != "null" {
			if err := json.Unmarshal(dataRaw, &n.Data); err != nil {
				logger.FromContext(ctx).Warn("Failed to unmarshal notification data",
					zap.String("notification_id", n.ID.String()), zap.Error(err))
				n.Data = nil
			}
		}
		items = append(items, n)
	}
	return items, total, unread, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET read = true, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND user_id = $2`, id, userID, now)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET read = true, read_at = $2
		WHERE user_id = $1 AND read = false`, userID, now)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
