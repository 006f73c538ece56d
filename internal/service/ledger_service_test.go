package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service"
	uowmocks "github.com/fsdevblog/groph-boost/pkg/uow/mocks"
)

type LedgerServiceSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	repos  *repoSet
	tx     *uowmocks.MockTX
	ledger *service.LedgerService
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repos = newRepoSet(s.ctrl)

	u := uowmocks.NewMockUOW(s.ctrl)
	s.tx = uowmocks.NewMockTX(s.ctrl)
	s.repos.bind(u, s.tx)

	var err error
	s.ledger, err = service.NewLedgerService(u)
	s.Require().NoError(err)
}

func (s *LedgerServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *LedgerServiceSuite) TestMoveToFrozenWritesLedgerEntry() {
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.BalanceAdjust{UserID: 1, BalanceDelta: -5000, FrozenDelta: 5000}).
		Return(activeUser(1, domain.RolePlayer, 5000, 5000), nil)
	s.repos.transaction.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionFrozen, args.Type)
			s.Equal(int64(-5000), args.Amount)
			s.Equal(int64(5000), args.Balance)
			return &domain.Transaction{ID: 1}, nil
		})

	user, err := s.ledger.MoveToFrozen(context.Background(), s.tx, 1, 5000)
	s.Require().NoError(err)
	s.Equal(int64(5000), user.Balance)
	s.Equal(int64(5000), user.FrozenBalance)
}

func (s *LedgerServiceSuite) TestMoveToFrozenInsufficientFunds() {
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.ledger.MoveToFrozen(context.Background(), s.tx, 1, 5000)
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
}

func (s *LedgerServiceSuite) TestRefundFromFrozenRestoresBalance() {
	orderID := int64(7)
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.BalanceAdjust{UserID: 1, BalanceDelta: 5000, FrozenDelta: -5000}).
		Return(activeUser(1, domain.RolePlayer, 10000, 0), nil)
	s.repos.transaction.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionRefund, args.Type)
			s.Equal(int64(5000), args.Amount)
			s.Require().NotNil(args.OrderID)
			s.Equal(orderID, *args.OrderID)
			return &domain.Transaction{ID: 2}, nil
		})

	user, err := s.ledger.RefundFromFrozen(context.Background(), s.tx, 1, orderID, 5000, "refund")
	s.Require().NoError(err)
	s.Equal(int64(10000), user.Balance)
	s.Equal(int64(0), user.FrozenBalance)
}

func (s *LedgerServiceSuite) TestPayOutSplitsPriceAndCommission() {
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
			return &domain.Transaction{ID: 3}, nil
		})

	payee, err := s.ledger.PayOutFromFrozen(context.Background(), s.tx, 1, 2, 7, 5000, 500, "income")
	s.Require().NoError(err)
	s.Equal(int64(4500), payee.Balance)
}

func (s *LedgerServiceSuite) TestRechargeIncreasesBalance() {
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(activeUser(1, domain.RolePlayer, 0, 0), nil)
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.BalanceAdjust{UserID: 1, BalanceDelta: 1000}).
		Return(activeUser(1, domain.RolePlayer, 1000, 0), nil)
	s.repos.transaction.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionRecharge, args.Type)
			s.Equal(int64(1000), args.Amount)
			s.Equal(int64(1000), args.Balance)
			return &domain.Transaction{ID: 4, Amount: 1000, Balance: 1000}, nil
		})

	trans, err := s.ledger.Recharge(context.Background(), 1, 1000)
	s.Require().NoError(err)
	s.Equal(int64(1000), trans.Balance)
}

func (s *LedgerServiceSuite) TestWithdrawRejectsOverdraft() {
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(activeUser(1, domain.RolePlayer, 100, 5000), nil)
	// Замороженный остаток в выводе не участвует: условный UPDATE не найдет
	// строку и вернет пустой результат.
	s.repos.user.EXPECT().
		AdjustBalance(gomock.Any(), repoargs.BalanceAdjust{UserID: 1, BalanceDelta: -1000}).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.ledger.Withdraw(context.Background(), 1, 1000)
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
}

func (s *LedgerServiceSuite) TestWalletOpsGuardAccountLifecycle() {
	deleting := activeUser(1, domain.RolePlayer, 1000, 0)
	deleting.Status = domain.UserStatusDeleting
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).Return(deleting, nil)

	_, err := s.ledger.Recharge(context.Background(), 1, 1000)
	s.Require().ErrorIs(err, domain.ErrAccountDisabled)
}

func (s *LedgerServiceSuite) TestListTransactions() {
	s.repos.transaction.EXPECT().ListForUser(gomock.Any(), int64(1)).
		Return([]domain.Transaction{{ID: 2}, {ID: 1}}, nil)

	transactions, err := s.ledger.ListTransactions(context.Background(), 1)
	s.Require().NoError(err)
	s.Len(transactions, 2)
}
