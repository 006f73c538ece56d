package service_test

import (
	"context"

	"github.com/golang/mock/gomock"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service/mocks"
	"github.com/fsdevblog/groph-boost/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-boost/pkg/uow/mocks"
)

// repoSet — полный набор мок-репозиториев, привязанный к мокам UOW/TX.
// Do прогоняет переданную функцию на mock-транзакции, так что сервисные
// тесты проверяют и содержимое транзакционного замыкания.
type repoSet struct {
	user         *mocks.MockUserRepository
	order        *mocks.MockOrderRepository
	transaction  *mocks.MockTransactionRepository
	progress     *mocks.MockProgressRepository
	notification *mocks.MockNotificationRepository
	booster      *mocks.MockBoosterProfileRepository
	catalog      *mocks.MockCatalogRepository
}

func newRepoSet(ctrl *gomock.Controller) *repoSet {
	return &repoSet{
		user:         mocks.NewMockUserRepository(ctrl),
		order:        mocks.NewMockOrderRepository(ctrl),
		transaction:  mocks.NewMockTransactionRepository(ctrl),
		progress:     mocks.NewMockProgressRepository(ctrl),
		notification: mocks.NewMockNotificationRepository(ctrl),
		booster:      mocks.NewMockBoosterProfileRepository(ctrl),
		catalog:      mocks.NewMockCatalogRepository(ctrl),
	}
}

func (r *repoSet) bind(u *uowmocks.MockUOW, tx *uowmocks.MockTX) {
	byName := map[repoargs.RepositoryName]any{
		repoargs.UserRepoName:           r.user,
		repoargs.OrderRepoName:          r.order,
		repoargs.TransactionRepoName:    r.transaction,
		repoargs.ProgressRepoName:       r.progress,
		repoargs.NotificationRepoName:   r.notification,
		repoargs.BoosterProfileRepoName: r.booster,
		repoargs.CatalogRepoName:        r.catalog,
	}
	for name, repo := range byName {
		u.EXPECT().GetRepository(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
		tx.EXPECT().Get(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
	}
	u.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, tx)
		}).
		AnyTimes()
}

func activeUser(id int64, role domain.UserRole, balance, frozen int64) *domain.User {
	return &domain.User{
		ID:            id,
		Username:      "user",
		Role:          role,
		Status:        domain.UserStatusActive,
		Balance:       balance,
		FrozenBalance: frozen,
	}
}

func orderInStatus(id, playerID int64, status domain.OrderStatusType) *domain.Order {
	return &domain.Order{
		ID:          id,
		OrderNo:     "DL202601021530450042",
		PlayerID:    playerID,
		GameID:      1,
		ServerID:    1,
		BoostTypeID: 1,
		Price:       5000,
		Commission:  500,
		Status:      status,
	}
}
