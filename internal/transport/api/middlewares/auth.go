package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-boost/internal/service/tokens"
)

var ErrTokenNotExist = errors.New("token not exist")

const CurrentUserIDKey = "currentUserID"

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его.
// Если токен не передан, вернется ошибка ErrTokenNotExist.
func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (*tokens.UserClaims, error) {
	tokenHeader := c.GetHeader("Authorization")
	bearer := "Bearer "

	if len(tokenHeader) < len(bearer) || tokenHeader[:len(bearer)] != bearer {
		return nil, ErrTokenNotExist
	}

	claims, err := tokens.ValidateUserJWT(tokenHeader[len(bearer):], jwtTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}
	return claims, nil
}

// AuthRequired проверяет, что запрос авторизован. Записывает в контекст
// (поле CurrentUserIDKey) id юзера.
func AuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			if !errors.Is(err, ErrTokenNotExist) {
				_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			}
			return
		}
		c.Set(CurrentUserIDKey, claims.ID)
		c.Next()
	}
}

// NonAuthRequired пропускает только запросы без действительного токена.
func NonAuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := checkAuthorization(c, jwtTokenSecret); err == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Already authorized"})
			return
		}
		c.Next()
	}
}
