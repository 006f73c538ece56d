package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-boost/internal/domain"
)

type CreateUser struct {
	Username string
	Password string
	Role     domain.UserRole
}

// BalanceAdjust атомарно сдвигает balance и frozen_balance юзера.
// Применяется только если оба результирующих значения неотрицательны.
type BalanceAdjust struct {
	UserID       int64
	BalanceDelta int64
	FrozenDelta  int64
}

type UserStatusUpdate struct {
	UserID              int64
	Status              domain.UserStatus
	DeletionRequestedAt *time.Time
	DeletionScheduledAt *time.Time
}

type BoosterProfileCreate struct {
	UserID       int64
	RealName     string
	Introduction string
}
