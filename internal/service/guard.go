package service

import (
	"fmt"

	"github.com/fsdevblog/groph-boost/internal/domain"
)

// ensureActive — защита жизненного цикла аккаунта. Ни одна операция,
// меняющая состояние или двигающая средства, не выполняется для аккаунта
// в статусе, отличном от ACTIVE. Статус читается внутри той же транзакции,
// что и сам переход, поэтому бан посреди запроса не проскочит.
func ensureActive(user *domain.User) error {
	if user.Status == domain.UserStatusActive {
		return nil
	}
	return fmt.Errorf("user %d has status %s: %w", user.ID, user.Status, domain.ErrAccountDisabled)
}
