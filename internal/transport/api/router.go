package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-boost/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup = "/api"

	RegisterRoute = "/user/register"
	LoginRoute    = "/user/login"
	ProfileRoute  = "/user/profile"
	DeletionRoute = "/user/deletion"

	BalanceRoute         = "/user/balance"
	BalanceRechargeRoute = "/user/balance/recharge"
	BalanceWithdrawRoute = "/user/balance/withdraw"
	TransactionsRoute    = "/user/transactions"

	NotificationsRoute     = "/user/notifications"
	NotificationsReadRoute = "/user/notifications/read"

	OrdersRoute        = "/orders"
	OrderRoute         = "/orders/:id"
	OrderAcceptRoute   = "/orders/:id/accept"
	OrderProgressRoute = "/orders/:id/progress"
	OrderCompleteRoute = "/orders/:id/complete"
	OrderConfirmRoute  = "/orders/:id/confirm"
	OrderCancelRoute   = "/orders/:id/cancel"

	BoosterApplyRoute  = "/booster/apply"
	BoosterVerifyRoute = "/admin/boosters/:id/verify"

	GamesRoute          = "/games"
	GameServersRoute    = "/games/:id/servers"
	GameBoostTypesRoute = "/games/:id/boost-types"
)

type RouterArgs struct {
	Logger              *logrus.Logger
	UserService         UserServicer
	OrderService        OrderServicer
	LedgerService       LedgerServicer
	BoosterService      BoosterServicer
	CatalogService      CatalogServicer
	NotificationService NotificationServicer
	JWTSecretKey        []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService, args.UserService)
	balanceHandler := NewBalanceHandler(args.LedgerService, args.UserService)
	boosterHandler := NewBoosterHandler(args.BoosterService)
	gamesHandler := NewGamesHandler(args.CatalogService)
	notificationsHandler := NewNotificationsHandler(args.NotificationService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.GET(GamesRoute, gamesHandler.Index)
	api.GET(GameServersRoute, gamesHandler.Servers)
	api.GET(GameBoostTypesRoute, gamesHandler.BoostTypes)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(ProfileRoute, authHandler.Profile)
	api.GET(DeletionRoute, authHandler.DeletionStatus)
	api.POST(DeletionRoute, authHandler.RequestDeletion)
	api.DELETE(DeletionRoute, authHandler.CancelDeletion)

	api.GET(BalanceRoute, balanceHandler.Index)
	api.POST(BalanceRechargeRoute, balanceHandler.Recharge)
	api.POST(BalanceWithdrawRoute, balanceHandler.Withdraw)
	api.GET(TransactionsRoute, balanceHandler.Transactions)

	api.GET(NotificationsRoute, notificationsHandler.Index)
	api.POST(NotificationsReadRoute, notificationsHandler.MarkRead)

	api.POST(OrdersRoute, ordersHandler.Create)
	api.GET(OrdersRoute, ordersHandler.Index)
	api.GET(OrderRoute, ordersHandler.Show)
	api.POST(OrderAcceptRoute, ordersHandler.Accept)
	api.POST(OrderProgressRoute, ordersHandler.AddProgress)
	api.GET(OrderProgressRoute, ordersHandler.Progress)
	api.POST(OrderCompleteRoute, ordersHandler.Complete)
	api.POST(OrderConfirmRoute, ordersHandler.Confirm)
	api.POST(OrderCancelRoute, ordersHandler.Cancel)

	api.POST(BoosterApplyRoute, boosterHandler.Apply)
	api.GET(BoosterApplyRoute, boosterHandler.Profile)
	api.POST(BoosterVerifyRoute, boosterHandler.Verify)

	return r, nil
}
