package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

// LedgerService — единственная точка движения средств. Каждая мутация
// balance/frozen_balance пишет запись в журнал transactions в той же
// транзакции БД; Amount записи — дельта доступного баланса, Balance —
// снимок после применения.
type LedgerService struct {
	uow       uow.UOW
	transRepo TransactionRepository
}

func NewLedgerService(u uow.UOW) (*LedgerService, error) {
	transRepo, err := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if err != nil {
		return nil, err
	}
	return &LedgerService{
		uow:       u,
		transRepo: transRepo,
	}, nil
}

// MoveToFrozen переводит amount из доступного баланса в замороженный.
// Вызывается только изнутри открытой транзакции tx. Существование юзера
// обязан проверить вызывающий: пустой результат условного UPDATE здесь
// означает нехватку средств.
func (l *LedgerService) MoveToFrozen(ctx context.Context, tx uow.TX, userID int64, amount int64) (*domain.User, error) {
	userRepo, transRepo, err := l.txRepos(tx)
	if err != nil {
		return nil, err
	}

	user, adjErr := userRepo.AdjustBalance(ctx, repoargs.BalanceAdjust{
		UserID:       userID,
		BalanceDelta: -amount,
		FrozenDelta:  amount,
	})
	if adjErr != nil {
		if errors.Is(adjErr, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("freezing %d for user %d: %w", amount, userID, domain.ErrInsufficientFunds)
		}
		return nil, adjErr //nolint:wrapcheck
	}

	_, transErr := transRepo.Create(ctx, repoargs.TransactionCreate{
		UserID:      userID,
		Type:        domain.TransactionFrozen,
		Amount:      -amount,
		Balance:     user.Balance,
		Description: "order escrow hold",
	})
	if transErr != nil {
		return nil, transErr //nolint:wrapcheck
	}
	return user, nil
}

// RefundFromFrozen возвращает amount из замороженного остатка обратно в
// доступный баланс и пишет REFUND запись, привязанную к заказу.
func (l *LedgerService) RefundFromFrozen(
	ctx context.Context,
	tx uow.TX,
	userID int64,
	orderID int64,
	amount int64,
	description string,
) (*domain.User, error) {
	userRepo, transRepo, err := l.txRepos(tx)
	if err != nil {
		return nil, err
	}

	user, adjErr := userRepo.AdjustBalance(ctx, repoargs.BalanceAdjust{
		UserID:       userID,
		BalanceDelta: amount,
		FrozenDelta:  -amount,
	})
	if adjErr != nil {
		if errors.Is(adjErr, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("unfreezing %d for user %d: %w", amount, userID, domain.ErrInsufficientFunds)
		}
		return nil, adjErr //nolint:wrapcheck
	}

	_, transErr := transRepo.Create(ctx, repoargs.TransactionCreate{
		UserID:      userID,
		OrderID:     &orderID,
		Type:        domain.TransactionRefund,
		Amount:      amount,
		Balance:     user.Balance,
		Description: description,
	})
	if transErr != nil {
		return nil, transErr //nolint:wrapcheck
	}
	return user, nil
}

// PayOutFromFrozen списывает price с замороженного остатка плательщика и
// зачисляет price - commission исполнителю, фиксируя ORDER_INCOME запись.
// Единственный путь выплаты эскроу-средств исполнителю.
func (l *LedgerService) PayOutFromFrozen(
	ctx context.Context,
	tx uow.TX,
	payerID int64,
	payeeID int64,
	orderID int64,
	price int64,
	commission int64,
	description string,
) (*domain.User, error) {
	userRepo, transRepo, err := l.txRepos(tx)
	if err != nil {
		return nil, err
	}

	if _, adjErr := userRepo.AdjustBalance(ctx, repoargs.BalanceAdjust{
		UserID:      payerID,
		FrozenDelta: -price,
	}); adjErr != nil {
		if errors.Is(adjErr, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("capturing %d from user %d: %w", price, payerID, domain.ErrInsufficientFunds)
		}
		return nil, adjErr //nolint:wrapcheck
	}

	income := price - commission
	payee, adjErr := userRepo.AdjustBalance(ctx, repoargs.BalanceAdjust{
		UserID:       payeeID,
		BalanceDelta: income,
	})
	if adjErr != nil {
		return nil, adjErr //nolint:wrapcheck
	}

	_, transErr := transRepo.Create(ctx, repoargs.TransactionCreate{
		UserID:      payeeID,
		OrderID:     &orderID,
		Type:        domain.TransactionOrderIncome,
		Amount:      income,
		Balance:     payee.Balance,
		Description: description,
	})
	if transErr != nil {
		return nil, transErr //nolint:wrapcheck
	}
	return payee, nil
}

// Recharge пополняет доступный баланс юзера.
func (l *LedgerService) Recharge(ctx context.Context, userID int64, amount int64) (*domain.Transaction, error) {
	return l.walletOp(ctx, userID, amount, domain.TransactionRecharge, "balance recharge")
}

// Withdraw выводит средства с доступного баланса. Замороженный остаток
// выводу не подлежит.
func (l *LedgerService) Withdraw(ctx context.Context, userID int64, amount int64) (*domain.Transaction, error) {
	return l.walletOp(ctx, userID, -amount, domain.TransactionWithdraw, "balance withdrawal")
}

func (l *LedgerService) walletOp(
	ctx context.Context,
	userID int64,
	delta int64,
	transType domain.TransactionType,
	description string,
) (*domain.Transaction, error) {
	var trans *domain.Transaction

	txErr := l.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, transRepo, reposErr := l.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		actor, actorErr := userRepo.FindByID(c, userID)
		if actorErr != nil {
			return actorErr //nolint:wrapcheck
		}
		if guardErr := ensureActive(actor); guardErr != nil {
			return guardErr
		}

		user, adjErr := userRepo.AdjustBalance(c, repoargs.BalanceAdjust{
			UserID:       userID,
			BalanceDelta: delta,
		})
		if adjErr != nil {
			if errors.Is(adjErr, domain.ErrRecordNotFound) {
				return fmt.Errorf("%s for user %d: %w", transType, userID, domain.ErrInsufficientFunds)
			}
			return adjErr //nolint:wrapcheck
		}

		var transErr error
		trans, transErr = transRepo.Create(c, repoargs.TransactionCreate{
			UserID:      userID,
			Type:        transType,
			Amount:      delta,
			Balance:     user.Balance,
			Description: description,
		})
		return transErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("wallet %s: %w", transType, txErr)
	}
	return trans, nil
}

// ListTransactions возвращает журнал юзера от новых к старым.
func (l *LedgerService) ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	transactions, err := l.transRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transactions, nil
}

func (l *LedgerService) txRepos(tx uow.TX) (UserRepository, TransactionRepository, error) {
	userRepo, userErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userErr != nil {
		return nil, nil, userErr //nolint:wrapcheck
	}
	transRepo, transErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
	if transErr != nil {
		return nil, nil, transErr //nolint:wrapcheck
	}
	return userRepo, transRepo, nil
}
