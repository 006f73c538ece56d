package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service"
	"github.com/fsdevblog/groph-boost/internal/service/mocks"
	uowmocks "github.com/fsdevblog/groph-boost/pkg/uow/mocks"
)

type OrderServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	repos    *repoSet
	notifier *mocks.MockNotifier
	ledger   *service.LedgerService
	orders   *service.OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repos = newRepoSet(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)

	u := uowmocks.NewMockUOW(s.ctrl)
	tx := uowmocks.NewMockTX(s.ctrl)
	s.repos.bind(u, tx)

	var err error
	s.ledger, err = service.NewLedgerService(u)
	s.Require().NoError(err)
	s.orders, err = service.NewOrderService(u, s.ledger, s.notifier, decimal.NewFromFloat(0.10))
	s.Require().NoError(err)
}

func (s *OrderServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrderServiceSuite) createArgs() service.CreateOrderArgs {
	return service.CreateOrderArgs{
		GameID:       1,
		ServerID:     1,
		BoostTypeID:  1,
		GameAccount:  "acc",
		GamePassword: "pass",
		CurrentLevel: "10",
		TargetLevel:  "60",
		Price:        5000,
	}
}

func (s *OrderServiceSuite) TestCreateFreezesPriceAndFixesCommission() {
	ctx := context.Background()
	player := activeUser(1, domain.RolePlayer, 10000, 0)

	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(player, nil)
	s.repos.catalog.EXPECT().
		RefsExist(gomock.Any(), repoargs.OrderRefs{GameID: 1, ServerID: 1, BoostTypeID: 1}).
		Return(true, nil)
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.BalanceAdjust{UserID: 1, BalanceDelta: -5000, FrozenDelta: 5000}).
		Return(activeUser(1, domain.RolePlayer, 5000, 5000), nil)
	s.repos.transaction.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionFrozen, args.Type)
			s.Equal(int64(-5000), args.Amount)
			s.Equal(int64(5000), args.Balance)
			s.Nil(args.OrderID)
			return &domain.Transaction{ID: 1}, nil
		})
	s.repos.order.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
			s.Equal(int64(1), args.PlayerID)
			s.Equal(int64(5000), args.Price)
			s.Equal(int64(500), args.Commission)
			s.True(strings.HasPrefix(args.OrderNo, "DL"))
			s.Len(args.OrderNo, 20)
			order := orderInStatus(7, 1, domain.OrderStatusPending)
			order.OrderNo = args.OrderNo
			return order, nil
		})

	order, err := s.orders.Create(ctx, 1, s.createArgs())
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPending, order.Status)
}

func (s *OrderServiceSuite) TestCreateRejectsNonPlayer() {
	booster := activeUser(2, domain.RoleBooster, 10000, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(2)).Return(booster, nil)

	_, err := s.orders.Create(context.Background(), 2, s.createArgs())
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *OrderServiceSuite) TestCreateRejectsDisabledAccount() {
	banned := activeUser(1, domain.RolePlayer, 10000, 0)
	banned.Status = domain.UserStatusBanned
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(banned, nil)

	_, err := s.orders.Create(context.Background(), 1, s.createArgs())
	s.Require().ErrorIs(err, domain.ErrAccountDisabled)
}

func (s *OrderServiceSuite) TestCreateInsufficientFunds() {
	player := activeUser(1, domain.RolePlayer, 1000, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(player, nil)
	s.repos.catalog.EXPECT().RefsExist(gomock.Any(), gomock.Any()).Return(true, nil)
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.orders.Create(context.Background(), 1, s.createArgs())
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
}

func (s *OrderServiceSuite) TestCreateUnknownReferences() {
	player := activeUser(1, domain.RolePlayer, 10000, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(player, nil)
	s.repos.catalog.EXPECT().RefsExist(gomock.Any(), gomock.Any()).Return(false, nil)

	_, err := s.orders.Create(context.Background(), 1, s.createArgs())
	s.Require().ErrorIs(err, domain.ErrReferenceNotFound)
}

func (s *OrderServiceSuite) verifiedBooster(id int64) {
	booster := activeUser(id, domain.RoleBooster, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), id).Return(booster, nil)
	s.repos.booster.EXPECT().FindByUserID(gomock.Any(), id).
		Return(&domain.BoosterProfile{UserID: id, IsVerified: true}, nil)
}

func (s *OrderServiceSuite) TestAcceptAssignsBoosterAndStartsClock() {
	s.verifiedBooster(2)
	pending := orderInStatus(7, 1, domain.OrderStatusPending)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).Return(pending, nil)
	s.repos.order.EXPECT().
		UpdateStatusFrom(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error) {
			s.Equal([]domain.OrderStatusType{domain.OrderStatusPending}, args.From)
			s.Equal(domain.OrderStatusAccepted, args.To)
			s.Require().NotNil(args.BoosterID)
			s.Equal(int64(2), *args.BoosterID)
			s.NotNil(args.StartedAt)

			accepted := orderInStatus(7, 1, domain.OrderStatusAccepted)
			accepted.BoosterID = args.BoosterID
			accepted.StartedAt = args.StartedAt
			return accepted, nil
		})
	s.repos.booster.EXPECT().IncrementTotalOrders(gomock.Any(), int64(2)).Return(nil)
	s.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

	order, err := s.orders.Accept(context.Background(), 2, 7)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusAccepted, order.Status)
	s.Require().NotNil(order.BoosterID)
	s.Equal(int64(2), *order.BoosterID)
	s.NotNil(order.StartedAt)
}

func (s *OrderServiceSuite) TestAcceptLosesRace() {
	s.verifiedBooster(2)
	taken := orderInStatus(7, 1, domain.OrderStatusAccepted)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).Return(taken, nil)
	s.repos.order.EXPECT().
		UpdateStatusFrom(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.orders.Accept(context.Background(), 2, 7)
	s.Require().Error(err)
	s.True(domain.IsInvalidState(err))
}

func (s *OrderServiceSuite) TestAcceptRequiresVerifiedProfile() {
	booster := activeUser(2, domain.RoleBooster, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(2)).Return(booster, nil)
	s.repos.booster.EXPECT().FindByUserID(gomock.Any(), int64(2)).
		Return(&domain.BoosterProfile{UserID: 2, IsVerified: false}, nil)

	_, err := s.orders.Accept(context.Background(), 2, 7)
	s.Require().ErrorIs(err, domain.ErrNotVerified)
}

func (s *OrderServiceSuite) TestAcceptRejectsPlayer() {
	player := activeUser(1, domain.RolePlayer, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(player, nil)

	_, err := s.orders.Accept(context.Background(), 1, 7)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *OrderServiceSuite) assignedOrder(status domain.OrderStatusType, boosterID int64) *domain.Order {
	order := orderInStatus(7, 1, status)
	order.BoosterID = &boosterID
	return order
}

func (s *OrderServiceSuite) TestAddProgressForcesInProgress() {
	booster := activeUser(2, domain.RoleBooster, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(2)).Return(booster, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(s.assignedOrder(domain.OrderStatusAccepted, 2), nil)
	s.repos.progress.EXPECT().
		Create(gomock.Any(), repoargs.ProgressCreate{OrderID: 7, Content: "halfway", Images: []string{"a.png"}}).
		Return(&domain.OrderProgress{ID: 1, OrderID: 7, Content: "halfway"}, nil)
	s.repos.order.EXPECT().
		UpdateStatusFrom(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error) {
			s.Equal(domain.OrderStatusInProgress, args.To)
			s.ElementsMatch(
				[]domain.OrderStatusType{domain.OrderStatusAccepted, domain.OrderStatusInProgress},
				args.From,
			)
			return s.assignedOrder(domain.OrderStatusInProgress, 2), nil
		})
	s.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

	progress, err := s.orders.AddProgress(context.Background(), 2, 7, "halfway", []string{"a.png"})
	s.Require().NoError(err)
	s.Equal("halfway", progress.Content)
}

func (s *OrderServiceSuite) TestAddProgressByForeignBooster() {
	booster := activeUser(3, domain.RoleBooster, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(3)).Return(booster, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(s.assignedOrder(domain.OrderStatusAccepted, 2), nil)

	_, err := s.orders.AddProgress(context.Background(), 3, 7, "x", nil)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *OrderServiceSuite) TestCompleteMovesToConfirmingWithoutPayout() {
	booster := activeUser(2, domain.RoleBooster, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(2)).Return(booster, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(s.assignedOrder(domain.OrderStatusInProgress, 2), nil)
	s.repos.order.EXPECT().
		UpdateStatusFrom(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error) {
			s.Equal(domain.OrderStatusConfirming, args.To)
			return s.assignedOrder(domain.OrderStatusConfirming, 2), nil
		})
	s.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

	// Выплаты нет: AdjustBalance не ожидается и упадет при вызове.
	order, err := s.orders.Complete(context.Background(), 2, 7)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusConfirming, order.Status)
}

func (s *OrderServiceSuite) TestConfirmPaysBoosterMinusCommission() {
	player := activeUser(1, domain.RolePlayer, 5000, 5000)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(player, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(s.assignedOrder(domain.OrderStatusConfirming, 2), nil)
	s.repos.order.EXPECT().
		UpdateStatusFrom(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error) {
			s.Equal(domain.OrderStatusCompleted, args.To)
			s.NotNil(args.CompletedAt)
			completed := s.assignedOrder(domain.OrderStatusCompleted, 2)
			completed.CompletedAt = args.CompletedAt
			return completed, nil
		})
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.BalanceAdjust{UserID: 1, FrozenDelta: -5000}).
		Return(activeUser(1, domain.RolePlayer, 5000, 0), nil)
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.BalanceAdjust{UserID: 2, BalanceDelta: 4500}).
		Return(activeUser(2, domain.RoleBooster, 4500, 0), nil)
	s.repos.transaction.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionOrderIncome, args.Type)
			s.Equal(int64(2), args.UserID)
			s.Equal(int64(4500), args.Amount)
			s.Equal(int64(4500), args.Balance)
			s.Require().NotNil(args.OrderID)
			s.Equal(int64(7), *args.OrderID)
			return &domain.Transaction{ID: 2}, nil
		})
	s.repos.booster.EXPECT().IncrementCompletedOrders(gomock.Any(), int64(2)).Return(nil)
	s.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

	order, err := s.orders.Confirm(context.Background(), 1, 7)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCompleted, order.Status)
}

func (s *OrderServiceSuite) TestConfirmByNonOwnerForbidden() {
	stranger := activeUser(3, domain.RolePlayer, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(3)).Return(stranger, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(s.assignedOrder(domain.OrderStatusConfirming, 2), nil)

	// Баланс не трогается: любой AdjustBalance уронит тест.
	_, err := s.orders.Confirm(context.Background(), 3, 7)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *OrderServiceSuite) TestConfirmBeforeCompletionRejected() {
	player := activeUser(1, domain.RolePlayer, 5000, 5000)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(player, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(s.assignedOrder(domain.OrderStatusInProgress, 2), nil)

	_, err := s.orders.Confirm(context.Background(), 1, 7)
	s.Require().Error(err)
	s.True(domain.IsInvalidState(err))
}

func (s *OrderServiceSuite) expectRefund(description string) {
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.BalanceAdjust{UserID: 1, BalanceDelta: 5000, FrozenDelta: -5000}).
		Return(activeUser(1, domain.RolePlayer, 10000, 0), nil)
	s.repos.transaction.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionRefund, args.Type)
			s.Equal(int64(5000), args.Amount)
			s.Contains(args.Description, description)
			return &domain.Transaction{ID: 3}, nil
		})
}

func (s *OrderServiceSuite) TestCancelRefundsEscrow() {
	player := activeUser(1, domain.RolePlayer, 5000, 5000)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(player, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(orderInStatus(7, 1, domain.OrderStatusPending), nil)
	s.repos.order.EXPECT().
		UpdateStatusFrom(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error) {
			s.Equal(domain.OrderStatusCancelled, args.To)
			s.Equal([]domain.OrderStatusType{domain.OrderStatusPending}, args.From)
			return orderInStatus(7, 1, domain.OrderStatusCancelled), nil
		})
	s.expectRefund("cancelled by player")
	s.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

	order, err := s.orders.Cancel(context.Background(), 1, 7)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCancelled, order.Status)
}

func (s *OrderServiceSuite) TestCancelByAdminTagsAuditTrail() {
	admin := activeUser(9, domain.RoleAdmin, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(9)).Return(admin, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(orderInStatus(7, 1, domain.OrderStatusPending), nil)
	s.repos.order.EXPECT().
		UpdateStatusFrom(gomock.Any(), gomock.Any()).
		Return(orderInStatus(7, 1, domain.OrderStatusCancelled), nil)
	s.expectRefund("cancelled by admin")
	s.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

	_, err := s.orders.Cancel(context.Background(), 9, 7)
	s.Require().NoError(err)
}

func (s *OrderServiceSuite) TestCancelAcceptedOrderRejected() {
	player := activeUser(1, domain.RolePlayer, 5000, 5000)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(player, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(s.assignedOrder(domain.OrderStatusAccepted, 2), nil)

	_, err := s.orders.Cancel(context.Background(), 1, 7)
	s.Require().Error(err)
	s.True(domain.IsInvalidState(err))
}

func (s *OrderServiceSuite) TestCancelByStrangerForbidden() {
	stranger := activeUser(5, domain.RolePlayer, 0, 0)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(5)).Return(stranger, nil)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(orderInStatus(7, 1, domain.OrderStatusPending), nil)

	_, err := s.orders.Cancel(context.Background(), 5, 7)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *OrderServiceSuite) TestGetByIDVisibleToParticipantsAndAdmin() {
	order := s.assignedOrder(domain.OrderStatusInProgress, 2)

	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).Return(order, nil).Times(3)

	_, err := s.orders.GetByID(context.Background(), 1, 7)
	s.Require().NoError(err)

	_, err = s.orders.GetByID(context.Background(), 2, 7)
	s.Require().NoError(err)

	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(9)).
		Return(activeUser(9, domain.RoleAdmin, 0, 0), nil)
	_, err = s.orders.GetByID(context.Background(), 9, 7)
	s.Require().NoError(err)
}

func (s *OrderServiceSuite) TestGetByIDHiddenFromStrangers() {
	order := s.assignedOrder(domain.OrderStatusInProgress, 2)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).Return(order, nil)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(5)).
		Return(activeUser(5, domain.RolePlayer, 0, 0), nil)

	_, err := s.orders.GetByID(context.Background(), 5, 7)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *OrderServiceSuite) TestGetByOrderNoResolvesParticipant() {
	order := s.assignedOrder(domain.OrderStatusInProgress, 2)
	s.repos.order.EXPECT().FindByOrderNo(gomock.Any(), order.OrderNo).Return(order, nil)

	found, err := s.orders.GetByOrderNo(context.Background(), 1, order.OrderNo)
	s.Require().NoError(err)
	s.Equal(order.ID, found.ID)
}

func (s *OrderServiceSuite) TestGetByOrderNoHiddenFromStrangers() {
	order := s.assignedOrder(domain.OrderStatusInProgress, 2)
	s.repos.order.EXPECT().FindByOrderNo(gomock.Any(), order.OrderNo).Return(order, nil)
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(5)).
		Return(activeUser(5, domain.RolePlayer, 0, 0), nil)

	_, err := s.orders.GetByOrderNo(context.Background(), 5, order.OrderNo)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *OrderServiceSuite) TestTransitionErrorRollsBackWithoutNotice() {
	s.verifiedBooster(2)
	s.repos.order.EXPECT().FindByID(gomock.Any(), int64(7)).
		Return(orderInStatus(7, 1, domain.OrderStatusPending), nil)
	s.repos.order.EXPECT().
		UpdateStatusFrom(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	// Emit не ожидается: уведомление об откатившемся переходе уйти не должно.
	_, err := s.orders.Accept(context.Background(), 2, 7)
	s.Require().Error(err)
	s.False(domain.IsInvalidState(err))
}
