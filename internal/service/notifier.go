package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

// PersistentNotifier складывает уведомления в таблицу notifications вне
// транзакции перехода. Доставка fire-and-forget: ошибка записи логируется
// и не влияет на уже закоммиченный переход.
type PersistentNotifier struct {
	notificationRepo NotificationRepository
	logger           *logrus.Logger
}

func NewPersistentNotifier(u uow.UOW, l *logrus.Logger) (*PersistentNotifier, error) {
	notificationRepo, err := uow.GetRepositoryAs[NotificationRepository](
		u, uow.RepositoryName(repoargs.NotificationRepoName))
	if err != nil {
		return nil, err
	}
	return &PersistentNotifier{
		notificationRepo: notificationRepo,
		logger:           l,
	}, nil
}

func (n *PersistentNotifier) Emit(ctx context.Context, notices ...repoargs.NotificationCreate) {
	for _, notice := range notices {
		if _, err := n.notificationRepo.Create(ctx, notice); err != nil {
			n.logger.WithError(err).
				WithField("UserID", notice.UserID).
				Warn("notification delivery failed")
		}
	}
}
