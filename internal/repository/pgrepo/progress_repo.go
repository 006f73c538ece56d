package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

type ProgressRepository struct {
	db uow.DBTX
}

func NewProgressRepository(db uow.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Create(ctx context.Context, args repoargs.ProgressCreate) (*domain.OrderProgress, error) {
	images := args.Images
	if images == nil {
		images = []string{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO order_progresses (order_id, content, images)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, order_id, content, images`,
		args.OrderID, args.Content, images,
	)
	progress, err := scanProgress(row)
	if err != nil {
		return nil, convertErr(err, "creating progress for order %d", args.OrderID)
	}
	return progress, nil
}

func (r *ProgressRepository) ListForOrder(ctx context.Context, orderID int64) ([]domain.OrderProgress, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, created_at, order_id, content, images
		FROM order_progresses WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`,
		orderID,
	)
	if err != nil {
		return nil, convertErr(err, "listing progress for order %d", orderID)
	}
	defer rows.Close()

	var progresses []domain.OrderProgress
	for rows.Next() {
		progress, scanErr := scanProgress(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing progress for order %d", orderID)
		}
		progresses = append(progresses, *progress)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing progress for order %d", orderID)
	}
	return progresses, nil
}

func scanProgress(row rowScanner) (*domain.OrderProgress, error) {
	var p domain.OrderProgress
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.OrderID, &p.Content, &p.Images); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &p, nil
}
