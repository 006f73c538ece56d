package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fsdevblog/groph-boost/internal/domain"
)

type BalanceHandler struct {
	ledgerSvs LedgerServicer
	userSvs   UserServicer
}

func NewBalanceHandler(ledgerSvs LedgerServicer, userSvs UserServicer) *BalanceHandler {
	return &BalanceHandler{
		ledgerSvs: ledgerSvs,
		userSvs:   userSvs,
	}
}

type BalanceResponse struct {
	Balance       int64 `json:"balance"`
	FrozenBalance int64 `json:"frozenBalance"`
}

// Index GET RouteGroup + BalanceRoute.
func (b *BalanceHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := b.userSvs.Profile(reqCtx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		Balance:       user.Balance,
		FrozenBalance: user.FrozenBalance,
	})
}

type WalletParams struct {
	// Сумма в минорных единицах.
	Amount int64 `binding:"required,gt=0" json:"amount"`
}

type TransactionResponse struct {
	ID          int64                  `json:"ID"`
	OrderID     *int64                 `json:"orderID,omitempty"`
	Type        domain.TransactionType `json:"type"`
	Amount      int64                  `json:"amount"`
	Balance     int64                  `json:"balance"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func newTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          transaction.ID,
		OrderID:     transaction.OrderID,
		Type:        transaction.Type,
		Amount:      transaction.Amount,
		Balance:     transaction.Balance,
		Description: transaction.Description,
		CreatedAt:   transaction.CreatedAt,
	}
}

// Recharge POST RouteGroup + BalanceRechargeRoute.
func (b *BalanceHandler) Recharge(c *gin.Context) {
	b.walletAction(c, b.ledgerSvs.Recharge)
}

// Withdraw POST RouteGroup + BalanceWithdrawRoute. Вывод возможен только с
// доступного баланса, замороженные средства не затрагиваются.
func (b *BalanceHandler) Withdraw(c *gin.Context) {
	b.walletAction(c, b.ledgerSvs.Withdraw)
}

func (b *BalanceHandler) walletAction(
	c *gin.Context,
	action func(ctx context.Context, userID int64, amount int64) (*domain.Transaction, error),
) {
	currentUserID := getUserIDFromContext(c)

	var params WalletParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := action(reqCtx, currentUserID, params.Amount)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(transaction)})
}

// Transactions GET RouteGroup + TransactionsRoute. Журнал от новых к старым.
func (b *BalanceHandler) Transactions(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := b.ledgerSvs.ListTransactions(reqCtx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if len(transactions) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		response[i] = newTransactionResponse(&transactions[i])
	}
	c.JSON(http.StatusOK, response)
}
