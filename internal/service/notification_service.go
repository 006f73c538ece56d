package service

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

type NotificationService struct {
	notificationRepo NotificationRepository
}

func NewNotificationService(u uow.UOW) (*NotificationService, error) {
	notificationRepo, err := uow.GetRepositoryAs[NotificationRepository](
		u, uow.RepositoryName(repoargs.NotificationRepoName))
	if err != nil {
		return nil, err
	}
	return &NotificationService{notificationRepo: notificationRepo}, nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int64, onlyUnread bool) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.ListForUser(ctx, userID, onlyUnread)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	return s.notificationRepo.MarkRead(ctx, userID, ids) //nolint:wrapcheck
}
