package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-boost/internal/config"
	"github.com/fsdevblog/groph-boost/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service"
	"github.com/fsdevblog/groph-boost/internal/transport/api"
	"github.com/fsdevblog/groph-boost/pkg/uow"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	commissionRate, rateErr := a.Config.Commission()
	if rateErr != nil {
		return fmt.Errorf("app run: %s", rateErr.Error())
	}

	services, sErr := service.Factory(service.FactoryArgs{
		UOW:            unitOfWork,
		Logger:         a.Logger,
		JWTSecret:      []byte(a.Config.JWTUserSecret),
		CommissionRate: commissionRate,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:              a.Logger,
		UserService:         services.UserService,
		OrderService:        services.OrderService,
		LedgerService:       services.LedgerService,
		BoosterService:      services.BoosterService,
		CatalogService:      services.CatalogService,
		NotificationService: services.NotificationService,
		JWTSecretKey:        []byte(a.Config.JWTUserSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.OrderRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewOrderRepository(dbtx)
		},
		repoargs.TransactionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewTransactionRepository(dbtx)
		},
		repoargs.ProgressRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewProgressRepository(dbtx)
		},
		repoargs.NotificationRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewNotificationRepository(dbtx)
		},
		repoargs.BoosterProfileRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewBoosterProfileRepository(dbtx)
		},
		repoargs.CatalogRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCatalogRepository(dbtx)
		},
	}

	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}
