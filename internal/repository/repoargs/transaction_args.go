package repoargs

import "github.com/fsdevblog/groph-boost/internal/domain"

type TransactionCreate struct {
	UserID      int64
	OrderID     *int64
	Type        domain.TransactionType
	Amount      int64
	Balance     int64
	Description string
}

type NotificationCreate struct {
	UserID  int64
	Type    domain.NotificationType
	Title   string
	Content string
	Data    string
}
