package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

type BoosterService struct {
	uow         uow.UOW
	boosterRepo BoosterProfileRepository
	notifier    Notifier
}

func NewBoosterService(u uow.UOW, notifier Notifier) (*BoosterService, error) {
	boosterRepo, err := uow.GetRepositoryAs[BoosterProfileRepository](
		u, uow.RepositoryName(repoargs.BoosterProfileRepoName))
	if err != nil {
		return nil, err
	}
	return &BoosterService{
		uow:         u,
		boosterRepo: boosterRepo,
		notifier:    notifier,
	}, nil
}

type ApplyArgs struct {
	RealName     string
	Introduction string
}

// Apply — заявка юзера на роль бустера. Создает неверифицированный профиль
// и меняет роль; принимать заказы бустер сможет только после верификации
// админом. Повторная заявка вернет domain.ErrDuplicateKey.
func (b *BoosterService) Apply(ctx context.Context, actorID int64, args ApplyArgs) (*domain.BoosterProfile, error) {
	var profile *domain.BoosterProfile

	txErr := b.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		actor, findErr := userRepo.FindByID(c, actorID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if guardErr := ensureActive(actor); guardErr != nil {
			return guardErr
		}

		boosterRepo, boosterRepoErr := uow.GetAs[BoosterProfileRepository](
			tx, uow.RepositoryName(repoargs.BoosterProfileRepoName))
		if boosterRepoErr != nil {
			return boosterRepoErr //nolint:wrapcheck
		}

		var createErr error
		profile, createErr = boosterRepo.Create(c, repoargs.BoosterProfileCreate{
			UserID:       actorID,
			RealName:     args.RealName,
			Introduction: args.Introduction,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		_, roleErr := userRepo.UpdateRole(c, actorID, domain.RoleBooster)
		return roleErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("applying for booster: %w", txErr)
	}
	return profile, nil
}

// Verify — админская верификация бустера.
func (b *BoosterService) Verify(ctx context.Context, adminID int64, boosterUserID int64) (*domain.BoosterProfile, error) {
	var profile *domain.BoosterProfile

	txErr := b.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		admin, findErr := userRepo.FindByID(c, adminID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if guardErr := ensureActive(admin); guardErr != nil {
			return guardErr
		}
		if admin.Role != domain.RoleAdmin {
			return fmt.Errorf("verifying booster %d: %w", boosterUserID, domain.ErrForbidden)
		}

		boosterRepo, boosterRepoErr := uow.GetAs[BoosterProfileRepository](
			tx, uow.RepositoryName(repoargs.BoosterProfileRepoName))
		if boosterRepoErr != nil {
			return boosterRepoErr //nolint:wrapcheck
		}

		var verifyErr error
		profile, verifyErr = boosterRepo.SetVerified(c, boosterUserID, true)
		return verifyErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("verifying booster %d: %w", boosterUserID, txErr)
	}

	b.notifier.Emit(ctx, repoargs.NotificationCreate{
		UserID:  boosterUserID,
		Type:    domain.NotificationSystem,
		Title:   "Booster application approved",
		Content: "Your booster profile is verified, you may now accept orders",
	})
	return profile, nil
}

// ProfileOf возвращает профиль бустера по id юзера.
func (b *BoosterService) ProfileOf(ctx context.Context, userID int64) (*domain.BoosterProfile, error) {
	profile, err := b.boosterRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return profile, nil
}
