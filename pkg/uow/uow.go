package uow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

// UnitOfWork держит пул соединений и фабрики репозиториев. Фабрика получает
// либо пул (вне транзакции), либо pgx.Tx (внутри Do) — репозиторий об этом
// знать не должен.
type UnitOfWork struct {
	conn         *pgxpool.Pool
	repositories map[RepositoryName]RepositoryFactory
}

func NewUnitOfWork(conn *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{
		conn:         conn,
		repositories: make(map[RepositoryName]RepositoryFactory),
	}
}

// Register регистрирует фабрику репозитория. Повторная регистрация имени
// возвращает ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if _, ok := u.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = factory
	return nil
}

// Do выполняет fn внутри одной транзакции БД. Ошибка fn откатывает все
// изменения целиком — частичное применение невозможно.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, pgx.TxOptions{})
	if txErr != nil {
		return txErr //nolint:wrapcheck
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if fnErr := fn(ctx, &txScope{tx: tx, repositories: u.repositories}); fnErr != nil {
		return fnErr
	}
	err = tx.Commit(ctx)
	return
}

// GetRepository возвращает репозиторий, работающий вне транзакции (на пуле),
// или ошибку ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if factory, ok := u.repositories[name]; ok {
		return factory(u.conn), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// txScope отдает репозитории, привязанные к открытой транзакции.
type txScope struct {
	repositories map[RepositoryName]RepositoryFactory
	tx           pgx.Tx
}

func (t *txScope) Get(name RepositoryName) (Repository, error) {
	if factory, ok := t.repositories[name]; ok {
		return factory(t.tx), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetRepositoryAs возвращает репозиторий name, приведенный к типу T.
// Возвращает ErrRepositoryNotRegistered либо ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return r, nil
}

// GetAs — то же, что GetRepositoryAs, но для репозиториев внутри транзакции.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	var res T
	repo, err := t.Get(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return r, nil
}
