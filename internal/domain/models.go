package domain

import (
	"time"
)

type User struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Username      string
	Password      string
	Role          UserRole
	Status        UserStatus
	Balance       int64 // доступные средства в минорных единицах (копейках)
	FrozenBalance int64 // средства, замороженные под открытые заказы

	DeletionRequestedAt *time.Time
	DeletionScheduledAt *time.Time
}

type BoosterProfile struct {
	ID              int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          int64
	RealName        string
	IsVerified      bool
	Rating          float64
	TotalOrders     int64
	CompletedOrders int64
	Introduction    string
}

type GameCategory struct {
	ID          int64
	Name        string
	Icon        string
	Description string
	IsActive    bool
	SortOrder   int32
}

type GameServer struct {
	ID        int64
	GameID    int64
	Name      string
	IsActive  bool
	SortOrder int32
}

type BoostType struct {
	ID          int64
	GameID      int64
	Name        string
	Description string
	BasePrice   int64
	Unit        string
	IsActive    bool
	SortOrder   int32
}

type Order struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	OrderNo   string
	PlayerID  int64
	BoosterID *int64 // nil пока заказ не принят

	GameID      int64
	ServerID    int64
	BoostTypeID int64

	// Данные игрового аккаунта. Ядро их не интерпретирует.
	GameAccount  string
	GamePassword string
	GameRole     string
	CurrentLevel string
	TargetLevel  string
	Requirements string

	Price      int64 // неизменяема после создания
	Commission int64 // комиссия платформы, фиксируется при создании

	Status OrderStatusType

	Deadline    *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

type OrderProgress struct {
	ID        int64
	CreatedAt time.Time
	OrderID   int64
	Content   string
	Images    []string
}

// Transaction — запись журнала баланса. Записи не изменяются и не удаляются:
// Amount — дельта доступного баланса, сумма всех Amount юзера обязана
// сходиться с его текущим balance.
type Transaction struct {
	ID          int64
	CreatedAt   time.Time
	UserID      int64
	OrderID     *int64
	Type        TransactionType
	Amount      int64 // со знаком
	Balance     int64 // баланс после применения
	Description string
}

type Notification struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
	Type      NotificationType
	Title     string
	Content   string
	Data      string
	IsRead    bool
}
