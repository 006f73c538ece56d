package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/service"
)

type AuthHandler struct {
	userService UserServicer
}

func NewAuthHandler(userService UserServicer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type UserRegisterParams struct {
	Username string `binding:"required,min=3,max=30"  form:"login"    json:"login"`
	Password string `binding:"required,min=6,max=255" form:"password" json:"password"`
}

type UserResponse struct {
	ID            int64             `json:"ID"`
	Username      string            `json:"login"`
	Role          domain.UserRole   `json:"role"`
	Status        domain.UserStatus `json:"status"`
	Balance       int64             `json:"balance"`
	FrozenBalance int64             `json:"frozenBalance"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Role:          user.Role,
		Status:        user.Status,
		Balance:       user.Balance,
		FrozenBalance: user.FrozenBalance,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// Register POST RouteGroup + RegisterRoute. Регистрирует пользователя и аутентифицирует его.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, jwtToken, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Username: params.Username,
		Password: params.Password,
	})
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			_ = c.AbortWithError(http.StatusConflict, errors.New("user with this login already exists")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, createErr).
			SetType(gin.ErrorTypePrivate)
		return
	}

	c.Header("Authorization", "Bearer "+jwtToken)
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type UserLoginParams struct {
	Username string `binding:"required,min=3,max=30"  json:"login"`
	Password string `binding:"required,min=6,max=255" json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре логин/пароль.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, token, err := h.userService.Login(ctx, service.LoginUserArgs{
		Username: params.Username,
		Password: params.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrPasswordMissMatch) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if errors.Is(err, domain.ErrAccountDisabled) {
			_ = c.AbortWithError(http.StatusForbidden, err).SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.Header("Authorization", "Bearer "+token)

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// Profile GET RouteGroup + ProfileRoute.
func (h *AuthHandler) Profile(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.Profile(ctx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type DeletionStatusResponse struct {
	IsDeletionPending   bool       `json:"isDeletionPending"`
	DeletionRequestedAt *time.Time `json:"deletionRequestedAt,omitempty"`
	DeletionScheduledAt *time.Time `json:"deletionScheduledAt,omitempty"`
	DaysRemaining       int        `json:"daysRemaining"`
}

// DeletionStatus GET RouteGroup + DeletionRoute.
func (h *AuthHandler) DeletionStatus(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	status, err := h.userService.GetDeletionStatus(ctx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeletionStatusResponse{
		IsDeletionPending:   status.IsDeletionPending,
		DeletionRequestedAt: status.DeletionRequestedAt,
		DeletionScheduledAt: status.DeletionScheduledAt,
		DaysRemaining:       status.DaysRemaining,
	})
}

// RequestDeletion POST RouteGroup + DeletionRoute. Заявка на удаление
// аккаунта с периодом охлаждения.
func (h *AuthHandler) RequestDeletion(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.RequestDeletion(ctx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// CancelDeletion DELETE RouteGroup + DeletionRoute.
func (h *AuthHandler) CancelDeletion(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.CancelDeletion(ctx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}
