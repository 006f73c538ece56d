package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")
	ErrPasswordMissMatch = errors.New("password mismatch")

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrForbidden         = errors.New("forbidden")
	ErrNotVerified       = errors.New("booster is not verified")
	ErrAccountDisabled   = errors.New("account is disabled")
	ErrReferenceNotFound = errors.New("referenced entity not found")

	ErrHasOpenOrders = errors.New("user has unfinished orders")
	ErrHasBalance    = errors.New("user balance is not empty")
)

// InvalidStateError возвращается при попытке перехода, запрещенного текущим
// статусом заказа. Безопасно обрабатывается перечитыванием заказа, автоматически
// не ретраится.
type InvalidStateError struct {
	OrderNo string
	Status  OrderStatusType
	Action  string
}

func NewInvalidStateError(orderNo string, status OrderStatusType, action string) error {
	return &InvalidStateError{OrderNo: orderNo, Status: status, Action: action}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("order %s in status %s does not permit %s", e.OrderNo, e.Status, e.Action)
}

// IsInvalidState сообщает, является ли err ошибкой недопустимого перехода.
func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}
