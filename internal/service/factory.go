package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-boost/pkg/uow"
)

type AppServices struct {
	UserService         *UserService
	OrderService        *OrderService
	LedgerService       *LedgerService
	BoosterService      *BoosterService
	CatalogService      *CatalogService
	NotificationService *NotificationService
}

type FactoryArgs struct {
	UOW            uow.UOW
	Logger         *logrus.Logger
	JWTSecret      []byte
	CommissionRate decimal.Decimal
}

func Factory(args FactoryArgs) (*AppServices, error) {
	notifier, notifierErr := NewPersistentNotifier(args.UOW, args.Logger)
	if notifierErr != nil {
		return nil, fmt.Errorf("service factory: %s", notifierErr.Error())
	}

	userService, userServiceErr := NewUserService(args.UOW, args.JWTSecret)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	ledgerService, ledgerServiceErr := NewLedgerService(args.UOW)
	if ledgerServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", ledgerServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(args.UOW, ledgerService, notifier, args.CommissionRate)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	boosterService, boosterServiceErr := NewBoosterService(args.UOW, notifier)
	if boosterServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", boosterServiceErr.Error())
	}

	catalogService, catalogServiceErr := NewCatalogService(args.UOW)
	if catalogServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", catalogServiceErr.Error())
	}

	notificationService, notificationServiceErr := NewNotificationService(args.UOW)
	if notificationServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", notificationServiceErr.Error())
	}

	return &AppServices{
		UserService:         userService,
		OrderService:        orderService,
		LedgerService:       ledgerService,
		BoosterService:      boosterService,
		CatalogService:      catalogService,
		NotificationService: notificationService,
	}, nil
}
