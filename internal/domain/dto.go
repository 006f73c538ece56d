package domain

type UserRole string

const (
	RolePlayer  UserRole = "PLAYER"
	RoleBooster UserRole = "BOOSTER"
	RoleAdmin   UserRole = "ADMIN"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusBanned   UserStatus = "BANNED"
	UserStatusPending  UserStatus = "PENDING"
	UserStatusDeleting UserStatus = "DELETING"
	UserStatusDeleted  UserStatus = "DELETED"
)

type OrderStatusType string

const (
	OrderStatusPending    OrderStatusType = "PENDING"
	OrderStatusAccepted   OrderStatusType = "ACCEPTED"
	OrderStatusInProgress OrderStatusType = "IN_PROGRESS"
	OrderStatusPaused     OrderStatusType = "PAUSED"
	OrderStatusConfirming OrderStatusType = "CONFIRMING"
	OrderStatusCompleted  OrderStatusType = "COMPLETED"
	OrderStatusCancelled  OrderStatusType = "CANCELLED"
	OrderStatusDisputed   OrderStatusType = "DISPUTED"
	OrderStatusRefunded   OrderStatusType = "REFUNDED"
)

// CanAccept отвечает, можно ли принять заказ в работу из текущего статуса.
func (s OrderStatusType) CanAccept() bool {
	return s == OrderStatusPending
}

// CanProgress отвечает, допускается ли добавление прогресса и сдача заказа.
// Оба действия легальны только пока заказ в активной работе.
func (s OrderStatusType) CanProgress() bool {
	return s == OrderStatusAccepted || s == OrderStatusInProgress
}

// CanConfirm отвечает, можно ли подтвердить выполнение заказа.
func (s OrderStatusType) CanConfirm() bool {
	return s == OrderStatusConfirming
}

// CanCancel отвечает, можно ли отменить заказ. Отмена разрешена только до
// принятия заказа: бустер, начавший работу, защищен от отмены.
func (s OrderStatusType) CanCancel() bool {
	return s == OrderStatusPending
}

// IsTerminal отвечает, является ли статус конечным.
func (s OrderStatusType) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusDisputed, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// OpenOrderStatuses — статусы, при которых заказ считается незавершенным.
// Используется проверкой перед заявкой на удаление аккаунта.
func OpenOrderStatuses() []OrderStatusType {
	return []OrderStatusType{
		OrderStatusPending,
		OrderStatusAccepted,
		OrderStatusInProgress,
		OrderStatusPaused,
		OrderStatusConfirming,
	}
}

type TransactionType string

const (
	TransactionRecharge    TransactionType = "RECHARGE"
	TransactionWithdraw    TransactionType = "WITHDRAW"
	TransactionOrderPay    TransactionType = "ORDER_PAY"
	TransactionOrderIncome TransactionType = "ORDER_INCOME"
	TransactionRefund      TransactionType = "REFUND"
	TransactionCommission  TransactionType = "COMMISSION"
	TransactionFrozen      TransactionType = "FROZEN"
	TransactionUnfrozen    TransactionType = "UNFROZEN"
)

type NotificationType string

const (
	NotificationSystem  NotificationType = "SYSTEM"
	NotificationOrder   NotificationType = "ORDER"
	NotificationPayment NotificationType = "PAYMENT"
)
