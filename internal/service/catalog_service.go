package service

import (
	"context"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/pkg/uow"
)

// CatalogService — справочник игр, серверов и типов буста. Только чтение.
type CatalogService struct {
	catalogRepo CatalogRepository
}

func NewCatalogService(u uow.UOW) (*CatalogService, error) {
	catalogRepo, err := uow.GetRepositoryAs[CatalogRepository](u, uow.RepositoryName(repoargs.CatalogRepoName))
	if err != nil {
		return nil, err
	}
	return &CatalogService{catalogRepo: catalogRepo}, nil
}

func (s *CatalogService) ListGames(ctx context.Context) ([]domain.GameCategory, error) {
	games, err := s.catalogRepo.ListGames(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return games, nil
}

func (s *CatalogService) ListServers(ctx context.Context, gameID int64) ([]domain.GameServer, error) {
	servers, err := s.catalogRepo.ListServers(ctx, gameID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return servers, nil
}

func (s *CatalogService) ListBoostTypes(ctx context.Context, gameID int64) ([]domain.BoostType, error) {
	boostTypes, err := s.catalogRepo.ListBoostTypes(ctx, gameID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return boostTypes, nil
}
