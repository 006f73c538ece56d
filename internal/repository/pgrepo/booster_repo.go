package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

const boosterProfileColumns = `id, created_at, updated_at, user_id, real_name, is_verified,
	rating, total_orders, completed_orders, introduction`

type BoosterProfileRepository struct {
	db uow.DBTX
}

func NewBoosterProfileRepository(db uow.DBTX) *BoosterProfileRepository {
	return &BoosterProfileRepository{db: db}
}

func (r *BoosterProfileRepository) Create(ctx context.Context, args repoargs.BoosterProfileCreate) (*domain.BoosterProfile, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO booster_profiles (user_id, real_name, introduction)
		VALUES ($1, $2, $3)
		RETURNING `+boosterProfileColumns,
		args.UserID, args.RealName, args.Introduction,
	)
	profile, err := scanBoosterProfile(row)
	if err != nil {
		return nil, convertErr(err, "creating booster profile for user %d", args.UserID)
	}
	return profile, nil
}

func (r *BoosterProfileRepository) FindByUserID(ctx context.Context, userID int64) (*domain.BoosterProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+boosterProfileColumns+` FROM booster_profiles WHERE user_id = $1`, userID)
	profile, err := scanBoosterProfile(row)
	if err != nil {
		return nil, convertErr(err, "finding booster profile of user %d", userID)
	}
	return profile, nil
}

func (r *BoosterProfileRepository) IncrementTotalOrders(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE booster_profiles
		SET total_orders = total_orders + 1, updated_at = now()
		WHERE user_id = $1`,
		userID,
	)
	return convertErr(err, "incrementing total orders of booster %d", userID)
}

func (r *BoosterProfileRepository) IncrementCompletedOrders(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE booster_profiles
		SET completed_orders = completed_orders + 1, updated_at = now()
		WHERE user_id = $1`,
		userID,
	)
	return convertErr(err, "incrementing completed orders of booster %d", userID)
}

func (r *BoosterProfileRepository) SetVerified(ctx context.Context, userID int64, verified bool) (*domain.BoosterProfile, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE booster_profiles SET is_verified = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING `+boosterProfileColumns,
		userID, verified,
	)
	profile, err := scanBoosterProfile(row)
	if err != nil {
		return nil, convertErr(err, "verifying booster %d", userID)
	}
	return profile, nil
}

func scanBoosterProfile(row rowScanner) (*domain.BoosterProfile, error) {
	var p domain.BoosterProfile
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.UserID, &p.RealName, &p.IsVerified,
		&p.Rating, &p.TotalOrders, &p.CompletedOrders, &p.Introduction,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &p, nil
}
