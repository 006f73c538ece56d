package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

// OrderService реализует жизненный цикл заказа. Каждый переход выполняется
// внутри одной транзакции БД вместе со всеми эффектами журнала баланса;
// уведомления буферизуются и отправляются только после коммита.
type OrderService struct {
	uow            uow.UOW
	ledger         *LedgerService
	notifier       Notifier
	commissionRate decimal.Decimal
	orderRepo      OrderRepository
	userRepo       UserRepository
}

func NewOrderService(
	u uow.UOW,
	ledger *LedgerService,
	notifier Notifier,
	commissionRate decimal.Decimal,
) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	userRepo, userErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userErr != nil {
		return nil, userErr
	}
	return &OrderService{
		uow:            u,
		ledger:         ledger,
		notifier:       notifier,
		commissionRate: commissionRate,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
	}, nil
}

type CreateOrderArgs struct {
	GameID       int64
	ServerID     int64
	BoostTypeID  int64
	GameAccount  string
	GamePassword string
	GameRole     string
	CurrentLevel string
	TargetLevel  string
	Requirements string
	Price        int64
	Deadline     *time.Time
}

// Create публикует новый заказ. Только PLAYER с достаточным балансом:
// цена замораживается на счету игрока до разрешения заказа (эскроу).
func (o *OrderService) Create(ctx context.Context, actorID int64, args CreateOrderArgs) (*domain.Order, error) {
	var order *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		actor, actorErr := o.loadActor(c, tx, actorID)
		if actorErr != nil {
			return actorErr
		}
		if actor.Role != domain.RolePlayer {
			return fmt.Errorf("only players may publish orders: %w", domain.ErrForbidden)
		}

		catalogRepo, catalogErr := uow.GetAs[CatalogRepository](tx, uow.RepositoryName(repoargs.CatalogRepoName))
		if catalogErr != nil {
			return catalogErr //nolint:wrapcheck
		}
		refsOK, refsErr := catalogRepo.RefsExist(c, repoargs.OrderRefs{
			GameID:      args.GameID,
			ServerID:    args.ServerID,
			BoostTypeID: args.BoostTypeID,
		})
		if refsErr != nil {
			return refsErr //nolint:wrapcheck
		}
		if !refsOK {
			return fmt.Errorf("game %d / server %d / boost type %d: %w",
				args.GameID, args.ServerID, args.BoostTypeID, domain.ErrReferenceNotFound)
		}

		if _, freezeErr := o.ledger.MoveToFrozen(c, tx, actor.ID, args.Price); freezeErr != nil {
			return freezeErr
		}

		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		var createErr error
		order, createErr = orderRepo.Create(c, repoargs.CreateOrder{
			OrderNo:      domain.GenerateOrderNo(time.Now()),
			PlayerID:     actor.ID,
			GameID:       args.GameID,
			ServerID:     args.ServerID,
			BoostTypeID:  args.BoostTypeID,
			GameAccount:  args.GameAccount,
			GamePassword: args.GamePassword,
			GameRole:     args.GameRole,
			CurrentLevel: args.CurrentLevel,
			TargetLevel:  args.TargetLevel,
			Requirements: args.Requirements,
			Price:        args.Price,
			Commission:   domain.CalculateCommission(args.Price, o.commissionRate),
			Deadline:     args.Deadline,
		})
		return createErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("creating order: %w", txErr)
	}
	return order, nil
}

// Accept закрепляет заказ за верифицированным бустером. Конкурентные попытки
// принять один PENDING заказ сериализуются условным UPDATE: успешной будет
// ровно одна, остальные получат InvalidStateError.
func (o *OrderService) Accept(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	var notices []repoargs.NotificationCreate

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		actor, actorErr := o.loadActor(c, tx, actorID)
		if actorErr != nil {
			return actorErr
		}
		if actor.Role != domain.RoleBooster {
			return fmt.Errorf("only boosters may accept orders: %w", domain.ErrForbidden)
		}

		boosterRepo, boosterErr := uow.GetAs[BoosterProfileRepository](tx, uow.RepositoryName(repoargs.BoosterProfileRepoName))
		if boosterErr != nil {
			return boosterErr //nolint:wrapcheck
		}
		profile, profileErr := boosterRepo.FindByUserID(c, actor.ID)
		if profileErr != nil {
			if errors.Is(profileErr, domain.ErrRecordNotFound) {
				return fmt.Errorf("booster %d has no profile: %w", actor.ID, domain.ErrNotVerified)
			}
			return profileErr //nolint:wrapcheck
		}
		if !profile.IsVerified {
			return fmt.Errorf("booster %d: %w", actor.ID, domain.ErrNotVerified)
		}

		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		current, findErr := orderRepo.FindByID(c, orderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}

		now := time.Now()
		var updErr error
		order, updErr = orderRepo.UpdateStatusFrom(c, repoargs.OrderStatusUpdate{
			ID:        orderID,
			From:      []domain.OrderStatusType{domain.OrderStatusPending},
			To:        domain.OrderStatusAccepted,
			BoosterID: &actor.ID,
			StartedAt: &now,
		})
		if updErr != nil {
			// Заказ существует, но уже не PENDING: гонка двух Accept либо
			// поздний повтор.
			if errors.Is(updErr, domain.ErrRecordNotFound) {
				return domain.NewInvalidStateError(current.OrderNo, current.Status, "accept")
			}
			return updErr //nolint:wrapcheck
		}

		if incErr := boosterRepo.IncrementTotalOrders(c, actor.ID); incErr != nil {
			return incErr //nolint:wrapcheck
		}

		notices = append(notices, repoargs.NotificationCreate{
			UserID:  order.PlayerID,
			Type:    domain.NotificationOrder,
			Title:   "Order accepted",
			Content: fmt.Sprintf("Order %s has been taken by a booster", order.OrderNo),
			Data:    noticeData(order.ID),
		})
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("accepting order %d: %w", orderID, txErr)
	}
	o.notifier.Emit(ctx, notices...)
	return order, nil
}

// AddProgress добавляет запись прогресса и принудительно переводит заказ в
// IN_PROGRESS. Доступно только назначенному бустеру, пока заказ в работе.
func (o *OrderService) AddProgress(
	ctx context.Context,
	actorID int64,
	orderID int64,
	content string,
	images []string,
) (*domain.OrderProgress, error) {
	var progress *domain.OrderProgress
	var notices []repoargs.NotificationCreate

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		order, orderErr := o.loadOrderForBooster(c, tx, actorID, orderID, "progress")
		if orderErr != nil {
			return orderErr
		}

		progressRepo, progressRepoErr := uow.GetAs[ProgressRepository](tx, uow.RepositoryName(repoargs.ProgressRepoName))
		if progressRepoErr != nil {
			return progressRepoErr //nolint:wrapcheck
		}
		var createErr error
		progress, createErr = progressRepo.Create(c, repoargs.ProgressCreate{
			OrderID: orderID,
			Content: content,
			Images:  images,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		if _, err := o.transition(c, tx, order, domain.OrderStatusInProgress, "progress", nil); err != nil {
			return err
		}

		notices = append(notices, repoargs.NotificationCreate{
			UserID:  order.PlayerID,
			Type:    domain.NotificationOrder,
			Title:   "Order progress updated",
			Content: fmt.Sprintf("Order %s has a new progress update", order.OrderNo),
			Data:    noticeData(order.ID),
		})
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("adding progress to order %d: %w", orderID, txErr)
	}
	o.notifier.Emit(ctx, notices...)
	return progress, nil
}

// Complete — сдача работы бустером. Заказ переходит в CONFIRMING; средства
// не двигаются — выплата происходит только при подтверждении игроком.
func (o *OrderService) Complete(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	var notices []repoargs.NotificationCreate

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		current, orderErr := o.loadOrderForBooster(c, tx, actorID, orderID, "complete")
		if orderErr != nil {
			return orderErr
		}

		var trErr error
		order, trErr = o.transition(c, tx, current, domain.OrderStatusConfirming, "complete", nil)
		if trErr != nil {
			return trErr
		}

		notices = append(notices, repoargs.NotificationCreate{
			UserID:  order.PlayerID,
			Type:    domain.NotificationOrder,
			Title:   "Order awaits confirmation",
			Content: fmt.Sprintf("Order %s is finished, please review and confirm", order.OrderNo),
			Data:    noticeData(order.ID),
		})
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("completing order %d: %w", orderID, txErr)
	}
	o.notifier.Emit(ctx, notices...)
	return order, nil
}

// Confirm — приемка заказа игроком. Единственный переход, выплачивающий
// эскроу-средства бустеру: замороженная цена списывается у игрока, бустеру
// зачисляется цена за вычетом комиссии.
func (o *OrderService) Confirm(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	var notices []repoargs.NotificationCreate

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		actor, actorErr := o.loadActor(c, tx, actorID)
		if actorErr != nil {
			return actorErr
		}

		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		current, findErr := orderRepo.FindByID(c, orderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if current.PlayerID != actor.ID {
			return fmt.Errorf("only the order owner may confirm: %w", domain.ErrForbidden)
		}
		if !current.Status.CanConfirm() {
			return domain.NewInvalidStateError(current.OrderNo, current.Status, "confirm")
		}
		if current.BoosterID == nil {
			return fmt.Errorf("order %s has no booster: %w", current.OrderNo, domain.ErrUnknown)
		}

		now := time.Now()
		var trErr error
		order, trErr = o.transition(c, tx, current, domain.OrderStatusCompleted, "confirm", &now)
		if trErr != nil {
			return trErr
		}

		if _, payErr := o.ledger.PayOutFromFrozen(
			c, tx,
			current.PlayerID, *current.BoosterID, current.ID,
			current.Price, current.Commission,
			fmt.Sprintf("income for order %s", current.OrderNo),
		); payErr != nil {
			return payErr
		}

		boosterRepo, boosterErr := uow.GetAs[BoosterProfileRepository](tx, uow.RepositoryName(repoargs.BoosterProfileRepoName))
		if boosterErr != nil {
			return boosterErr //nolint:wrapcheck
		}
		if incErr := boosterRepo.IncrementCompletedOrders(c, *current.BoosterID); incErr != nil {
			return incErr //nolint:wrapcheck
		}

		notices = append(notices, repoargs.NotificationCreate{
			UserID:  *current.BoosterID,
			Type:    domain.NotificationOrder,
			Title:   "Order completed",
			Content: fmt.Sprintf("Order %s is confirmed, income %d credited", current.OrderNo, current.Price-current.Commission),
			Data:    noticeData(current.ID),
		})
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("confirming order %d: %w", orderID, txErr)
	}
	o.notifier.Emit(ctx, notices...)
	return order, nil
}

// Cancel отменяет заказ и возвращает замороженную цену игроку. Разрешен
// владельцу заказа либо админу и только до принятия заказа бустером.
func (o *OrderService) Cancel(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	var notices []repoargs.NotificationCreate

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		actor, actorErr := o.loadActor(c, tx, actorID)
		if actorErr != nil {
			return actorErr
		}

		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		current, findErr := orderRepo.FindByID(c, orderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}

		isOwner := current.PlayerID == actor.ID
		isAdmin := actor.Role == domain.RoleAdmin
		if !isOwner && !isAdmin {
			return fmt.Errorf("cancelling order %s: %w", current.OrderNo, domain.ErrForbidden)
		}
		if !current.Status.CanCancel() {
			return domain.NewInvalidStateError(current.OrderNo, current.Status, "cancel")
		}

		var trErr error
		order, trErr = o.transition(c, tx, current, domain.OrderStatusCancelled, "cancel", nil)
		if trErr != nil {
			return trErr
		}

		// В описании возврата фиксируем инициатора — для аудита важно
		// различать отмену игроком и админом.
		description := fmt.Sprintf("refund for order %s cancelled by player", current.OrderNo)
		if isAdmin && !isOwner {
			description = fmt.Sprintf("refund for order %s cancelled by admin", current.OrderNo)
		}
		if _, refundErr := o.ledger.RefundFromFrozen(
			c, tx, current.PlayerID, current.ID, current.Price, description,
		); refundErr != nil {
			return refundErr
		}

		notices = append(notices, repoargs.NotificationCreate{
			UserID:  current.PlayerID,
			Type:    domain.NotificationOrder,
			Title:   "Order cancelled",
			Content: fmt.Sprintf("Order %s is cancelled, %d refunded to your balance", current.OrderNo, current.Price),
			Data:    noticeData(current.ID),
		})
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("cancelling order %d: %w", orderID, txErr)
	}
	o.notifier.Emit(ctx, notices...)
	return order, nil
}

// GetByID возвращает заказ участнику (игроку, бустеру) либо админу.
func (o *OrderService) GetByID(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error) {
	order, err := o.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if permErr := o.ensureParticipant(ctx, actorID, order); permErr != nil {
		return nil, permErr
	}
	return order, nil
}

// GetByOrderNo возвращает заказ по его номеру с теми же правами доступа,
// что и GetByID.
func (o *OrderService) GetByOrderNo(ctx context.Context, actorID int64, orderNo string) (*domain.Order, error) {
	order, err := o.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if permErr := o.ensureParticipant(ctx, actorID, order); permErr != nil {
		return nil, permErr
	}
	return order, nil
}

// ListForUser возвращает заказы, видимые юзеру в его роли.
func (o *OrderService) ListForUser(ctx context.Context, args repoargs.OrderList) ([]domain.Order, error) {
	orders, err := o.orderRepo.ListForUser(ctx, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// ListProgress возвращает историю прогресса заказа от новых к старым.
func (o *OrderService) ListProgress(ctx context.Context, actorID int64, orderID int64) ([]domain.OrderProgress, error) {
	order, orderErr := o.orderRepo.FindByID(ctx, orderID)
	if orderErr != nil {
		return nil, orderErr //nolint:wrapcheck
	}
	if permErr := o.ensureParticipant(ctx, actorID, order); permErr != nil {
		return nil, permErr
	}

	progressRepo, err := uow.GetRepositoryAs[ProgressRepository](o.uow, uow.RepositoryName(repoargs.ProgressRepoName))
	if err != nil {
		return nil, err
	}
	progresses, listErr := progressRepo.ListForOrder(ctx, orderID)
	if listErr != nil {
		return nil, listErr //nolint:wrapcheck
	}
	return progresses, nil
}

// ensureParticipant разрешает чтение заказа его игроку, назначенному бустеру
// и админу.
func (o *OrderService) ensureParticipant(ctx context.Context, actorID int64, order *domain.Order) error {
	if order.PlayerID == actorID || (order.BoosterID != nil && *order.BoosterID == actorID) {
		return nil
	}
	actor, err := o.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("viewing order %s: %w", order.OrderNo, domain.ErrForbidden)
	}
	return nil
}

// transition выполняет условный переход статуса; проигранная гонка
// конвертируется в InvalidStateError по свежему состоянию заказа.
func (o *OrderService) transition(
	ctx context.Context,
	tx uow.TX,
	current *domain.Order,
	to domain.OrderStatusType,
	action string,
	completedAt *time.Time,
) (*domain.Order, error) {
	orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr //nolint:wrapcheck
	}

	order, err := orderRepo.UpdateStatusFrom(ctx, repoargs.OrderStatusUpdate{
		ID:          current.ID,
		From:        transitionSources(to),
		To:          to,
		CompletedAt: completedAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.NewInvalidStateError(current.OrderNo, current.Status, action)
		}
		return nil, err //nolint:wrapcheck
	}
	return order, nil
}

// transitionSources перечисляет статусы, из которых разрешен переход в to.
func transitionSources(to domain.OrderStatusType) []domain.OrderStatusType {
	switch to {
	case domain.OrderStatusAccepted:
		return []domain.OrderStatusType{domain.OrderStatusPending}
	case domain.OrderStatusInProgress, domain.OrderStatusConfirming:
		return []domain.OrderStatusType{domain.OrderStatusAccepted, domain.OrderStatusInProgress}
	case domain.OrderStatusCompleted:
		return []domain.OrderStatusType{domain.OrderStatusConfirming}
	case domain.OrderStatusCancelled:
		return []domain.OrderStatusType{domain.OrderStatusPending}
	default:
		return nil
	}
}

// loadActor читает действующего юзера внутри транзакции и применяет защиту
// жизненного цикла аккаунта.
func (o *OrderService) loadActor(ctx context.Context, tx uow.TX, actorID int64) (*domain.User, error) {
	userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	actor, findErr := userRepo.FindByID(ctx, actorID)
	if findErr != nil {
		return nil, findErr //nolint:wrapcheck
	}
	if guardErr := ensureActive(actor); guardErr != nil {
		return nil, guardErr
	}
	return actor, nil
}

// loadOrderForBooster — общая часть переходов, доступных только назначенному
// бустеру в активной фазе работы.
func (o *OrderService) loadOrderForBooster(
	ctx context.Context,
	tx uow.TX,
	actorID int64,
	orderID int64,
	action string,
) (*domain.Order, error) {
	actor, actorErr := o.loadActor(ctx, tx, actorID)
	if actorErr != nil {
		return nil, actorErr
	}

	orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr //nolint:wrapcheck
	}
	order, findErr := orderRepo.FindByID(ctx, orderID)
	if findErr != nil {
		return nil, findErr //nolint:wrapcheck
	}

	if order.BoosterID == nil || *order.BoosterID != actor.ID {
		return nil, fmt.Errorf("only the assigned booster may %s: %w", action, domain.ErrForbidden)
	}
	if !order.Status.CanProgress() {
		return nil, domain.NewInvalidStateError(order.OrderNo, order.Status, action)
	}
	return order, nil
}

func noticeData(orderID int64) string {
	return fmt.Sprintf(`{"orderId":%d}`, orderID)
}
