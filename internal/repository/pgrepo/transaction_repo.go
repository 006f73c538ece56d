package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

const transactionColumns = `id, created_at, user_id, order_id, type, amount, balance, description`

type TransactionRepository struct {
	db uow.DBTX
}

func NewTransactionRepository(db uow.DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO transactions (user_id, order_id, type, amount, balance, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		args.UserID, args.OrderID, args.Type, args.Amount, args.Balance, args.Description,
	)
	trans, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating %s transaction for user %d", args.Type, args.UserID)
	}
	return trans, nil
}

func (r *TransactionRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "listing transactions for user %d", userID)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		trans, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing transactions for user %d", userID)
		}
		transactions = append(transactions, *trans)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing transactions for user %d", userID)
	}
	return transactions, nil
}

// SumForUser возвращает знаковую сумму всех движений юзера. Amount каждой
// записи — дельта доступного баланса, поэтому сумма журнала обязана совпадать
// с текущим users.balance.
func (r *TransactionRepository) SumForUser(ctx context.Context, userID int64) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`,
		userID,
	).Scan(&sum)
	if err != nil {
		return 0, convertErr(err, "summing transactions for user %d", userID)
	}
	return sum, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.CreatedAt, &t.UserID, &t.OrderID, &t.Type, &t.Amount, &t.Balance, &t.Description)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &t, nil
}
