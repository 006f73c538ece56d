package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-boost/internal/domain"
)

type CreateOrder struct {
	OrderNo      string
	PlayerID     int64
	GameID       int64
	ServerID     int64
	BoostTypeID  int64
	GameAccount  string
	GamePassword string
	GameRole     string
	CurrentLevel string
	TargetLevel  string
	Requirements string
	Price        int64
	Commission   int64
	Deadline     *time.Time
}

// OrderStatusUpdate описывает условный переход статуса: заказ обновится
// только если его текущий статус входит в From. Непустые указатели
// записываются вместе со сменой статуса в том же UPDATE.
type OrderStatusUpdate struct {
	ID          int64
	From        []domain.OrderStatusType
	To          domain.OrderStatusType
	BoosterID   *int64
	StartedAt   *time.Time
	CompletedAt *time.Time
}

type OrderList struct {
	UserID int64
	Role   domain.UserRole
	Status domain.OrderStatusType // пустой — без фильтра
	GameID int64                  // 0 — без фильтра
	Limit  uint
	Offset uint
}

type ProgressCreate struct {
	OrderID int64
	Content string
	Images  []string
}

// OrderRefs — внешние сущности, существование которых проверяется при
// создании заказа.
type OrderRefs struct {
	GameID      int64
	ServerID    int64
	BoostTypeID int64
}
