package service

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	AdjustBalance(ctx context.Context, args repoargs.BalanceAdjust) (*domain.User, error)
	UpdateStatus(ctx context.Context, args repoargs.UserStatusUpdate) (*domain.User, error)
	UpdateRole(ctx context.Context, userID int64, role domain.UserRole) (*domain.User, error)
}

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByOrderNo(ctx context.Context, orderNo string) (*domain.Order, error)
	UpdateStatusFrom(ctx context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error)
	ListForUser(ctx context.Context, args repoargs.OrderList) ([]domain.Order, error)
	CountOpenForUser(ctx context.Context, userID int64) (int64, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Transaction, error)
	SumForUser(ctx context.Context, userID int64) (int64, error)
}

type ProgressRepository interface {
	Create(ctx context.Context, args repoargs.ProgressCreate) (*domain.OrderProgress, error)
	ListForOrder(ctx context.Context, orderID int64) ([]domain.OrderProgress, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, args repoargs.NotificationCreate) (*domain.Notification, error)
	ListForUser(ctx context.Context, userID int64, onlyUnread bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) error
}

type BoosterProfileRepository interface {
	Create(ctx context.Context, args repoargs.BoosterProfileCreate) (*domain.BoosterProfile, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.BoosterProfile, error)
	IncrementTotalOrders(ctx context.Context, userID int64) error
	IncrementCompletedOrders(ctx context.Context, userID int64) error
	SetVerified(ctx context.Context, userID int64, verified bool) (*domain.BoosterProfile, error)
}

type CatalogRepository interface {
	RefsExist(ctx context.Context, refs repoargs.OrderRefs) (bool, error)
	ListGames(ctx context.Context) ([]domain.GameCategory, error)
	ListServers(ctx context.Context, gameID int64) ([]domain.GameServer, error)
	ListBoostTypes(ctx context.Context, gameID int64) ([]domain.BoostType, error)
}

// Notifier доставляет уведомления получателям. Вызывается строго после
// коммита транзакции перехода: уведомление об откатившемся переходе уйти
// не может. Ошибки доставки не влияют на результат операции.
type Notifier interface {
	Emit(ctx context.Context, notices ...repoargs.NotificationCreate)
}
