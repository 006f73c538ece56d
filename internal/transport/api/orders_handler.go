package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service"
)

const (
	defaultOrdersPerPage = 20
	maxOrdersPerPage     = 100
)

type OrdersHandler struct {
	orderSvs OrderServicer
	userSvs  UserServicer
}

func NewOrdersHandler(orderSvs OrderServicer, userSvs UserServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
		userSvs:  userSvs,
	}
}

type OrderResponse struct {
	ID           int64                  `json:"ID"`
	OrderNo      string                 `json:"orderNo"`
	PlayerID     int64                  `json:"playerID"`
	BoosterID    *int64                 `json:"boosterID,omitempty"`
	GameID       int64                  `json:"gameID"`
	ServerID     int64                  `json:"serverID"`
	BoostTypeID  int64                  `json:"boostTypeID"`
	GameRole     string                 `json:"gameRole,omitempty"`
	CurrentLevel string                 `json:"currentLevel"`
	TargetLevel  string                 `json:"targetLevel"`
	Requirements string                 `json:"requirements,omitempty"`
	Price        int64                  `json:"price"`
	Commission   int64                  `json:"commission"`
	Status       domain.OrderStatusType `json:"status"`
	Deadline     *time.Time             `json:"deadline,omitempty"`
	StartedAt    *time.Time             `json:"startedAt,omitempty"`
	CompletedAt  *time.Time             `json:"completedAt,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// Реквизиты игрового аккаунта в ответы не попадают.
func newOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:           order.ID,
		OrderNo:      order.OrderNo,
		PlayerID:     order.PlayerID,
		BoosterID:    order.BoosterID,
		GameID:       order.GameID,
		ServerID:     order.ServerID,
		BoostTypeID:  order.BoostTypeID,
		GameRole:     order.GameRole,
		CurrentLevel: order.CurrentLevel,
		TargetLevel:  order.TargetLevel,
		Requirements: order.Requirements,
		Price:        order.Price,
		Commission:   order.Commission,
		Status:       order.Status,
		Deadline:     order.Deadline,
		StartedAt:    order.StartedAt,
		CompletedAt:  order.CompletedAt,
		CreatedAt:    order.CreatedAt,
	}
}

type OrderCreateParams struct {
	GameID       int64      `binding:"required,gt=0"            json:"gameID"`
	ServerID     int64      `binding:"required,gt=0"            json:"serverID"`
	BoostTypeID  int64      `binding:"required,gt=0"            json:"boostTypeID"`
	GameAccount  string     `binding:"required,max_bytes=255"   json:"gameAccount"`
	GamePassword string     `binding:"required,max_bytes=255"   json:"gamePassword"`
	GameRole     string     `binding:"omitempty,max_bytes=255"  json:"gameRole"`
	CurrentLevel string     `binding:"required,max_bytes=64"    json:"currentLevel"`
	TargetLevel  string     `binding:"required,max_bytes=64"    json:"targetLevel"`
	Requirements string     `binding:"omitempty,max_bytes=2000" json:"requirements"`
	Price        int64      `binding:"required,gt=0"            json:"price"`
	Deadline     *time.Time `binding:"omitempty"                json:"deadline"`
}

// Create POST RouteGroup + OrdersRoute. Публикует заказ, замораживая его цену
// на счету игрока.
func (o *OrdersHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params OrderCreateParams
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

	order, createErr := o.orderSvs.Create(reqCtx, currentUserID, service.CreateOrderArgs{
		GameID:       params.GameID,
		ServerID:     params.ServerID,
		BoostTypeID:  params.BoostTypeID,
		GameAccount:  params.GameAccount,
		GamePassword: params.GamePassword,
		GameRole:     params.GameRole,
		CurrentLevel: params.CurrentLevel,
		TargetLevel:  params.TargetLevel,
		Requirements: params.Requirements,
		Price:        params.Price,
		Deadline:     params.Deadline,
	})
	if createErr != nil {
		abortWithServiceError(c, createErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": newOrderResponse(order)})
}

type OrderListParams struct {
	Status string `form:"status"`
	GameID int64  `form:"gameID"`
	Page   uint   `form:"page"`
	Limit  uint   `form:"limit"`
}

// Index GET RouteGroup + OrdersRoute. Игрок видит свои заказы, бустер - свои
// плюс свободные PENDING.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params OrderListParams
	if bindErr := c.ShouldBindQuery(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if params.Limit == 0 || params.Limit > maxOrdersPerPage {
		params.Limit = defaultOrdersPerPage
	}
	var offset uint
	if params.Page > 1 {
		offset = (params.Page - 1) * params.Limit
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, userErr := o.userSvs.Profile(reqCtx, currentUserID)
	if userErr != nil {
		abortWithServiceError(c, userErr)
		return
	}

	orders, err := o.orderSvs.ListForUser(reqCtx, repoargs.OrderList{
		UserID: currentUserID,
		Role:   user.Role,
		Status: domain.OrderStatusType(params.Status),
		GameID: params.GameID,
		Limit:  params.Limit,
		Offset: offset,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = newOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + OrderRoute. Заказ ищется по числовому id либо,
// если параметр начинается с префикса номера, по номеру заказа.
func (o *OrdersHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	var order *domain.Order
	var err error
	if param := c.Param("id"); strings.HasPrefix(param, domain.OrderNoPrefix) {
		order, err = o.orderSvs.GetByOrderNo(reqCtx, currentUserID, param)
	} else {
		orderID, ok := getIDParam(c, "id")
		if !ok {
			return
		}
		order, err = o.orderSvs.GetByID(reqCtx, currentUserID, orderID)
	}
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": newOrderResponse(order)})
}

// Accept POST RouteGroup + OrderAcceptRoute.
func (o *OrdersHandler) Accept(c *gin.Context) {
	o.lifecycleAction(c, o.orderSvs.Accept)
}

// Complete POST RouteGroup + OrderCompleteRoute.
func (o *OrdersHandler) Complete(c *gin.Context) {
	o.lifecycleAction(c, o.orderSvs.Complete)
}

// Confirm POST RouteGroup + OrderConfirmRoute.
func (o *OrdersHandler) Confirm(c *gin.Context) {
	o.lifecycleAction(c, o.orderSvs.Confirm)
}

// Cancel POST RouteGroup + OrderCancelRoute.
func (o *OrdersHandler) Cancel(c *gin.Context) {
	o.lifecycleAction(c, o.orderSvs.Cancel)
}

// lifecycleAction - общий каркас переходов без тела запроса.
func (o *OrdersHandler) lifecycleAction(
	c *gin.Context,
	action func(ctx context.Context, actorID int64, orderID int64) (*domain.Order, error),
) {
	currentUserID := getUserIDFromContext(c)
	orderID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := action(reqCtx, currentUserID, orderID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": newOrderResponse(order)})
}

type ProgressCreateParams struct {
	Content string   `binding:"required,max_bytes=2000" json:"content"`
	Images  []string `binding:"omitempty,max=9"         json:"images"`
}

type ProgressResponse struct {
	ID        int64     `json:"ID"`
	OrderID   int64     `json:"orderID"`
	Content   string    `json:"content"`
	Images    []string  `json:"images,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddProgress POST RouteGroup + OrderProgressRoute.
func (o *OrdersHandler) AddProgress(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	orderID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	var params ProgressCreateParams
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

	progress, err := o.orderSvs.AddProgress(reqCtx, currentUserID, orderID, params.Content, params.Images)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"progress": ProgressResponse{
		ID:        progress.ID,
		OrderID:   progress.OrderID,
		Content:   progress.Content,
		Images:    progress.Images,
		CreatedAt: progress.CreatedAt,
	}})
}

// Progress GET RouteGroup + OrderProgressRoute.
func (o *OrdersHandler) Progress(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	orderID, ok := getIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	progresses, err := o.orderSvs.ListProgress(reqCtx, currentUserID, orderID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := make([]ProgressResponse, len(progresses))
	for i, progress := range progresses {
		response[i] = ProgressResponse{
			ID:        progress.ID,
			OrderID:   progress.OrderID,
			Content:   progress.Content,
			Images:    progress.Images,
			CreatedAt: progress.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
