package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service/tokens"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

const JWTTokenExpire = 1 * time.Hour

// DeletionCoolingDays — период охлаждения между заявкой на удаление аккаунта
// и самим удалением.
const DeletionCoolingDays = 7

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Username string
	Password string
}

// Register создает юзера (роль PLAYER) и выдает jwt токен.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.hashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}

	var user *domain.User
	var token string
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		var userErr error
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Username: args.Username,
			Password: password,
			Role:     domain.RolePlayer,
		})
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		var tokenErr error
		token, tokenErr = tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
		return tokenErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}
	return user, token, nil
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login сверяет пароль и выдает jwt токен. Для BANNED и DELETED аккаунтов
// вход закрыт; DELETING может войти, чтобы отменить удаление.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByUsername(ctx, args.Username)
	if findErr != nil {
		return nil, "", findErr //nolint:wrapcheck
	}

	if !s.comparePasswords(user.Password, args.Password) {
		return nil, "", domain.ErrPasswordMissMatch
	}

	if user.Status == domain.UserStatusBanned || user.Status == domain.UserStatusDeleted {
		return nil, "", fmt.Errorf("login of user %d: %w", user.ID, domain.ErrAccountDisabled)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", tokenErr //nolint:wrapcheck
	}
	return user, token, nil
}

// Profile возвращает юзера по id.
func (s *UserService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

type DeletionStatus struct {
	IsDeletionPending   bool
	DeletionRequestedAt *time.Time
	DeletionScheduledAt *time.Time
	DaysRemaining       int
}

// GetDeletionStatus доступен в том числе аккаунту в статусе DELETING.
func (s *UserService) GetDeletionStatus(ctx context.Context, userID int64) (*DeletionStatus, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if user.Status != domain.UserStatusDeleting || user.DeletionScheduledAt == nil {
		return &DeletionStatus{}, nil
	}

	daysRemaining := int(time.Until(*user.DeletionScheduledAt).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	return &DeletionStatus{
		IsDeletionPending:   true,
		DeletionRequestedAt: user.DeletionRequestedAt,
		DeletionScheduledAt: user.DeletionScheduledAt,
		DaysRemaining:       daysRemaining,
	}, nil
}

// RequestDeletion переводит аккаунт в период охлаждения перед удалением.
// Заявка принимается только при отсутствии незавершенных заказов и нулевом
// балансе (включая замороженный) — иначе средства зависли бы навсегда.
func (s *UserService) RequestDeletion(ctx context.Context, userID int64) (*domain.User, error) {
	var user *domain.User

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		current, findErr := userRepo.FindByID(c, userID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if guardErr := ensureActive(current); guardErr != nil {
			return guardErr
		}

		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		openOrders, countErr := orderRepo.CountOpenForUser(c, userID)
		if countErr != nil {
			return countErr //nolint:wrapcheck
		}
		if openOrders > 0 {
			return fmt.Errorf("user %d has %d open orders: %w", userID, openOrders, domain.ErrHasOpenOrders)
		}

		if current.Balance > 0 || current.FrozenBalance > 0 {
			return fmt.Errorf("user %d: %w", userID, domain.ErrHasBalance)
		}

		// Сверка журнала с балансом перед расставанием с аккаунтом:
		// ненулевая сумма движений при нулевом балансе означает расхождение
		// в журнале, такой аккаунт удалять нельзя.
		transRepo, transRepoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if transRepoErr != nil {
			return transRepoErr //nolint:wrapcheck
		}
		journalSum, sumErr := transRepo.SumForUser(c, userID)
		if sumErr != nil {
			return sumErr //nolint:wrapcheck
		}
		if journalSum != current.Balance {
			return fmt.Errorf("user %d journal sum %d does not match balance %d: %w",
				userID, journalSum, current.Balance, domain.ErrUnknown)
		}

		now := time.Now()
		scheduledAt := now.AddDate(0, 0, DeletionCoolingDays)

		var updErr error
		user, updErr = userRepo.UpdateStatus(c, repoargs.UserStatusUpdate{
			UserID:              userID,
			Status:              domain.UserStatusDeleting,
			DeletionRequestedAt: &now,
			DeletionScheduledAt: &scheduledAt,
		})
		return updErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("requesting deletion of user %d: %w", userID, txErr)
	}
	return user, nil
}

// CancelDeletion возвращает аккаунт из периода охлаждения в ACTIVE.
func (s *UserService) CancelDeletion(ctx context.Context, userID int64) (*domain.User, error) {
	var user *domain.User

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		current, findErr := userRepo.FindByID(c, userID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if current.Status != domain.UserStatusDeleting {
			return fmt.Errorf("user %d is not pending deletion: %w", userID, domain.ErrUnknown)
		}

		var updErr error
		user, updErr = userRepo.UpdateStatus(c, repoargs.UserStatusUpdate{
			UserID: userID,
			Status: domain.UserStatusActive,
		})
		return updErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("cancelling deletion of user %d: %w", userID, txErr)
	}
	return user, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (s *UserService) comparePasswords(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
