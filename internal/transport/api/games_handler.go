package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GamesHandler отдает справочник игр и их опций. Роуты публичные.
type GamesHandler struct {
	catalogSvs CatalogServicer
}

func NewGamesHandler(catalogSvs CatalogServicer) *GamesHandler {
	return &GamesHandler{
		catalogSvs: catalogSvs,
	}
}

// Index GET RouteGroup + GamesRoute.
func (g *GamesHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	games, err := g.catalogSvs.ListGames(reqCtx)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// Servers GET RouteGroup + GameServersRoute.
func (g *GamesHandler) Servers(c *gin.Context) {
	gameID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	servers, err := g.catalogSvs.ListServers(reqCtx, gameID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"servers": servers})
}

// BoostTypes GET RouteGroup + GameBoostTypesRoute.
func (g *GamesHandler) BoostTypes(c *gin.Context) {
	gameID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	boostTypes, err := g.catalogSvs.ListBoostTypes(reqCtx, gameID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boostTypes": boostTypes})
}
