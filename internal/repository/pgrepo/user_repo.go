package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

const userColumns = `id, created_at, updated_at, username, password, role, status,
	balance, frozen_balance, deletion_requested_at, deletion_scheduled_at`

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password, role)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		args.Username, args.Password, args.Role,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user %s", args.Username)
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// AdjustBalance атомарно сдвигает balance и frozen_balance. Условие в WHERE
// гарантирует неотрицательность обоих полей: при нехватке средств запрос не
// затронет ни одной строки и вернется domain.ErrRecordNotFound.
func (r *UserRepository) AdjustBalance(ctx context.Context, args repoargs.BalanceAdjust) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET balance = balance + $2,
		    frozen_balance = frozen_balance + $3,
		    updated_at = now()
		WHERE id = $1
		  AND balance + $2 >= 0
		  AND frozen_balance + $3 >= 0
		RETURNING `+userColumns,
		args.UserID, args.BalanceDelta, args.FrozenDelta,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "adjusting balance of user %d", args.UserID)
	}
	return user, nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, args repoargs.UserStatusUpdate) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET status = $2,
		    deletion_requested_at = $3,
		    deletion_scheduled_at = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		args.UserID, args.Status, args.DeletionRequestedAt, args.DeletionScheduledAt,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "updating status of user %d", args.UserID)
	}
	return user, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID int64, role domain.UserRole) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = now() WHERE id = $1
		RETURNING `+userColumns,
		userID, role,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "updating role of user %d", userID)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Password, &u.Role, &u.Status,
		&u.Balance, &u.FrozenBalance, &u.DeletionRequestedAt, &u.DeletionScheduledAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &u, nil
}
