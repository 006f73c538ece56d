package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	GetDeletionStatus(ctx context.Context, userID int64) (*service.DeletionStatus, error)
	RequestDeletion(ctx context.Context, userID int64) (*domain.User, error)
	CancelDeletion(ctx context.Context, userID int64) (*domain.User, error)
}

type OrderServicer interface {
	Create(ctx context.Context, actorID int64, args service.CreateOrderArgs) (*domain.Order, error)
	Accept(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error)
	AddProgress(ctx context.Context, actorID int64, orderID int64, content string, images []string) (*domain.OrderProgress, error)
	Complete(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error)
	Confirm(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error)
	Cancel(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error)
	GetByID(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error)
	GetByOrderNo(ctx context.Context, actorID int64, orderNo string) (*domain.Order, error)
	ListForUser(ctx context.Context, args repoargs.OrderList) ([]domain.Order, error)
	ListProgress(ctx context.Context, actorID int64, orderID int64) ([]domain.OrderProgress, error)
}

type LedgerServicer interface {
	Recharge(ctx context.Context, userID int64, amount int64) (*domain.Transaction, error)
	Withdraw(ctx context.Context, userID int64, amount int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error)
}

type BoosterServicer interface {
	Apply(ctx context.Context, actorID int64, args service.ApplyArgs) (*domain.BoosterProfile, error)
	Verify(ctx context.Context, adminID int64, boosterUserID int64) (*domain.BoosterProfile, error)
	ProfileOf(ctx context.Context, userID int64) (*domain.BoosterProfile, error)
}

type CatalogServicer interface {
	ListGames(ctx context.Context) ([]domain.GameCategory, error)
	ListServers(ctx context.Context, gameID int64) ([]domain.GameServer, error)
	ListBoostTypes(ctx context.Context, gameID int64) ([]domain.BoostType, error)
}

type NotificationServicer interface {
	ListForUser(ctx context.Context, userID int64, onlyUnread bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) error
}
