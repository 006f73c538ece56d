package pgrepo

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

const orderColumns = `id, created_at, updated_at, order_no, player_id, booster_id,
	game_id, server_id, boost_type_id,
	game_account, game_password, game_role, current_level, target_level, requirements,
	price, commission, status, deadline, started_at, completed_at`

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO orders (order_no, player_id, game_id, server_id, boost_type_id,
			game_account, game_password, game_role, current_level, target_level, requirements,
			price, commission, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 'PENDING')
		RETURNING `+orderColumns,
		args.OrderNo, args.PlayerID, args.GameID, args.ServerID, args.BoostTypeID,
		args.GameAccount, args.GamePassword, args.GameRole, args.CurrentLevel,
		args.TargetLevel, args.Requirements, args.Price, args.Commission, args.Deadline,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order %s", args.OrderNo)
	}
	return order, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by id %d", id)
	}
	return order, nil
}

func (r *OrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_no = $1`, orderNo)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by order_no %s", orderNo)
	}
	return order, nil
}

// UpdateStatusFrom выполняет условный переход статуса: строка обновится
// только если текущий статус входит в args.From. Проверка и запись происходят
// одним UPDATE, поэтому два конкурентных перехода сериализуются базой —
// второй не найдет строку и получит domain.ErrRecordNotFound.
func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error) {
	from := make([]string, len(args.From))
	for i, s := range args.From {
		from[i] = string(s)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE orders
		SET status = $3,
		    booster_id = COALESCE($4, booster_id),
		    started_at = COALESCE($5, started_at),
		    completed_at = COALESCE($6, completed_at),
		    updated_at = now()
		WHERE id = $1 AND status = ANY($2)
		RETURNING `+orderColumns,
		args.ID, from, args.To, args.BoosterID, args.StartedAt, args.CompletedAt,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "updating status of order %d to %s", args.ID, args.To)
	}
	return order, nil
}

func (r *OrderRepository) ListForUser(ctx context.Context, args repoargs.OrderList) ([]domain.Order, error) {
	// Игрок видит свои заказы; бустер — свободные PENDING и взятые им самим.
	query := `SELECT ` + orderColumns + ` FROM orders WHERE (player_id = $1 OR booster_id = $1`
	if args.Role == domain.RoleBooster {
		query += ` OR status = 'PENDING'`
	}
	query += `)`

	queryArgs := []any{args.UserID}
	if args.Status != "" {
		queryArgs = append(queryArgs, args.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(queryArgs))
	}
	if args.GameID > 0 {
		queryArgs = append(queryArgs, args.GameID)
		query += fmt.Sprintf(` AND game_id = $%d`, len(queryArgs))
	}
	query += ` ORDER BY created_at DESC`
	if args.Limit > 0 {
		queryArgs = append(queryArgs, args.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(queryArgs))
	}
	if args.Offset > 0 {
		queryArgs = append(queryArgs, args.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(queryArgs))
	}

	rows, err := r.db.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, convertErr(err, "listing orders for user %d", args.UserID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing orders for user %d", args.UserID)
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing orders for user %d", args.UserID)
	}
	return orders, nil
}

// CountOpenForUser считает незавершенные заказы юзера в любой роли.
func (r *OrderRepository) CountOpenForUser(ctx context.Context, userID int64) (int64, error) {
	statuses := domain.OpenOrderStatuses()
	open := make([]string, len(statuses))
	for i, s := range statuses {
		open[i] = string(s)
	}

	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM orders
		WHERE (player_id = $1 OR booster_id = $1) AND status = ANY($2)`,
		userID, open,
	).Scan(&count)
	if err != nil {
		return 0, convertErr(err, "counting open orders for user %d", userID)
	}
	return count, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.CreatedAt, &o.UpdatedAt, &o.OrderNo, &o.PlayerID, &o.BoosterID,
		&o.GameID, &o.ServerID, &o.BoostTypeID,
		&o.GameAccount, &o.GamePassword, &o.GameRole, &o.CurrentLevel, &o.TargetLevel, &o.Requirements,
		&o.Price, &o.Commission, &o.Status, &o.Deadline, &o.StartedAt, &o.CompletedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &o, nil
}
