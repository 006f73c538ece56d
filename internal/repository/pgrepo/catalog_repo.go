package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

type CatalogRepository struct {
	db uow.DBTX
}

func NewCatalogRepository(db uow.DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// RefsExist проверяет существование игры, сервера и типа буста, на которые
// ссылается создаваемый заказ. Сервер и тип буста обязаны принадлежать игре.
func (r *CatalogRepository) RefsExist(ctx context.Context, refs repoargs.OrderRefs) (bool, error) {
	var gameOK, serverOK, boostTypeOK bool
	err := r.db.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM game_categories WHERE id = $1 AND is_active),
			EXISTS(SELECT 1 FROM game_servers WHERE id = $2 AND game_id = $1 AND is_active),
			EXISTS(SELECT 1 FROM boost_types WHERE id = $3 AND game_id = $1 AND is_active)`,
		refs.GameID, refs.ServerID, refs.BoostTypeID,
	).Scan(&gameOK, &serverOK, &boostTypeOK)
	if err != nil {
		return false, convertErr(err, "checking order refs (game %d)", refs.GameID)
	}
	return gameOK && serverOK && boostTypeOK, nil
}

func (r *CatalogRepository) ListGames(ctx context.Context) ([]domain.GameCategory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, icon, description, is_active, sort_order
		FROM game_categories WHERE is_active
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, convertErr(err, "listing games")
	}
	defer rows.Close()

	var games []domain.GameCategory
	for rows.Next() {
		var g domain.GameCategory
		if scanErr := rows.Scan(&g.ID, &g.Name, &g.Icon, &g.Description, &g.IsActive, &g.SortOrder); scanErr != nil {
			return nil, convertErr(scanErr, "listing games")
		}
		games = append(games, g)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing games")
	}
	return games, nil
}

func (r *CatalogRepository) ListServers(ctx context.Context, gameID int64) ([]domain.GameServer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, name, is_active, sort_order
		FROM game_servers WHERE game_id = $1 AND is_active
		ORDER BY sort_order, id`,
		gameID,
	)
	if err != nil {
		return nil, convertErr(err, "listing servers of game %d", gameID)
	}
	defer rows.Close()

	var servers []domain.GameServer
	for rows.Next() {
		var s domain.GameServer
		if scanErr := rows.Scan(&s.ID, &s.GameID, &s.Name, &s.IsActive, &s.SortOrder); scanErr != nil {
			return nil, convertErr(scanErr, "listing servers of game %d", gameID)
		}
		servers = append(servers, s)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing servers of game %d", gameID)
	}
	return servers, nil
}

func (r *CatalogRepository) ListBoostTypes(ctx context.Context, gameID int64) ([]domain.BoostType, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, name, description, base_price, unit, is_active, sort_order
		FROM boost_types WHERE game_id = $1 AND is_active
		ORDER BY sort_order, id`,
		gameID,
	)
	if err != nil {
		return nil, convertErr(err, "listing boost types of game %d", gameID)
	}
	defer rows.Close()

	var boostTypes []domain.BoostType
	for rows.Next() {
		var b domain.BoostType
		scanErr := rows.Scan(&b.ID, &b.GameID, &b.Name, &b.Description, &b.BasePrice, &b.Unit, &b.IsActive, &b.SortOrder)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing boost types of game %d", gameID)
		}
		boostTypes = append(boostTypes, b)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing boost types of game %d", gameID)
	}
	return boostTypes, nil
}
