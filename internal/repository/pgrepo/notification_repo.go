package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

const notificationColumns = `id, created_at, user_id, type, title, content, data, is_read`

type NotificationRepository struct {
	db uow.DBTX
}

func NewNotificationRepository(db uow.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, args repoargs.NotificationCreate) (*domain.Notification, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, title, content, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		args.UserID, args.Type, args.Title, args.Content, args.Data,
	)
	notification, err := scanNotification(row)
	if err != nil {
		return nil, convertErr(err, "creating notification for user %d", args.UserID)
	}
	return notification, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID int64, onlyUnread bool) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	if onlyUnread {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, convertErr(err, "listing notifications for user %d", userID)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		notification, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing notifications for user %d", userID)
		}
		notifications = append(notifications, *notification)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing notifications for user %d", userID)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND id = ANY($2)`,
		userID, ids,
	)
	return convertErr(err, "marking notifications read for user %d", userID)
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.CreatedAt, &n.UserID, &n.Type, &n.Title, &n.Content, &n.Data, &n.IsRead)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &n, nil
}
