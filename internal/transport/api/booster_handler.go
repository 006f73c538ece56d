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

type BoosterHandler struct {
	boosterSvs BoosterServicer
}

func NewBoosterHandler(boosterSvs BoosterServicer) *BoosterHandler {
	return &BoosterHandler{
		boosterSvs: boosterSvs,
	}
}

type BoosterApplyParams struct {
	RealName     string `binding:"required,max_bytes=255"   json:"realName"`
	Introduction string `binding:"omitempty,max_bytes=2000" json:"introduction"`
}

type BoosterProfileResponse struct {
	UserID          int64     `json:"userID"`
	RealName        string    `json:"realName"`
	IsVerified      bool      `json:"isVerified"`
	Rating          float64   `json:"rating"`
	TotalOrders     int64     `json:"totalOrders"`
	CompletedOrders int64     `json:"completedOrders"`
	Introduction    string    `json:"introduction,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newBoosterProfileResponse(profile *domain.BoosterProfile) BoosterProfileResponse {
	return BoosterProfileResponse{
		UserID:          profile.UserID,
		RealName:        profile.RealName,
		IsVerified:      profile.IsVerified,
		Rating:          profile.Rating,
		TotalOrders:     profile.TotalOrders,
		CompletedOrders: profile.CompletedOrders,
		Introduction:    profile.Introduction,
		CreatedAt:       profile.CreatedAt,
	}
}

// Apply POST RouteGroup + BoosterApplyRoute. Заявка на роль бустера;
// принимать заказы можно только после верификации админом.
func (b *BoosterHandler) Apply(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params BoosterApplyParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profile, err := b.boosterSvs.Apply(reqCtx, currentUserID, service.ApplyArgs{
		RealName:     params.RealName,
		Introduction: params.Introduction,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": newBoosterProfileResponse(profile)})
}

// Profile GET RouteGroup + BoosterApplyRoute.
func (b *BoosterHandler) Profile(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profile, err := b.boosterSvs.ProfileOf(reqCtx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": newBoosterProfileResponse(profile)})
}

// Verify POST RouteGroup + BoosterVerifyRoute. Только для админа.
func (b *BoosterHandler) Verify(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	boosterUserID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	profile, err := b.boosterSvs.Verify(reqCtx, currentUserID, boosterUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": newBoosterProfileResponse(profile)})
}
