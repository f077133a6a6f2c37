package repository

import (
	"context"

	"petshop_tycoon/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO notifications (user_id, title, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		n.UserID, n.Title, n.Body,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]*domain.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, body, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &n)
	}
	return res, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND NOT is_read`, userID)
	return err
}
