package api

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/logger"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service"
	"github.com/fsdevblog/groph-boost/internal/service/tokens"
	"github.com/fsdevblog/groph-boost/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-boost/internal/transport/api/testutils"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockOrderService *mocks.MockOrderServicer
	mockUserService  *mocks.MockUserServicer
	jwtSecret        []byte
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	var err error
	s.router, err = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		UserService:  s.mockUserService,
		OrderService: s.mockOrderService,
		JWTSecretKey: s.jwtSecret,
	})
	s.Require().NoError(err)
}

func (s *OrderHandlerTestSuite) tokenFor(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *OrderHandlerTestSuite) TestCreateOrder() {
	var currentUserID int64 = 1
	jwtToken := s.tokenFor(currentUserID)

	validPayload := []byte(`{
		"gameID": 1, "serverID": 2, "boostTypeID": 3,
		"gameAccount": "acc", "gamePassword": "pass",
		"currentLevel": "10", "targetLevel": "60",
		"price": 5000
	}`)
	// без gameAccount и price
	invalidPayload := []byte(`{"gameID": 1, "serverID": 2, "boostTypeID": 3}`)

	s.mockOrderService.EXPECT().
		Create(gomock.Any(), currentUserID, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ int64, args service.CreateOrderArgs) (*domain.Order, error) {
			s.Equal(int64(5000), args.Price)
			s.Equal("acc", args.GameAccount)
			return &domain.Order{
				ID:       7,
				OrderNo:  "DL202601021530450042",
				PlayerID: currentUserID,
				Price:    5000,
				Status:   domain.OrderStatusPending,
			}, nil
		}).Times(1)

	cases := []struct {
		name       string
		payload    []byte
		wantStatus int
		jwtToken   string
	}{
		{
			name:       "all ok",
			payload:    validPayload,
			wantStatus: http.StatusCreated,
			jwtToken:   jwtToken,
		}, {
			name:       "not authorized",
			payload:    validPayload,
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "invalid payload",
			payload:    invalidPayload,
			wantStatus: http.StatusUnprocessableEntity,
			jwtToken:   jwtToken,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			opts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/json"),
			}
			if tc.jwtToken != "" {
				opts = append(opts, testutils.WithBearer(tc.jwtToken))
			}

			response := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + OrdersRoute,
				Body:   bytes.NewReader(tc.payload),
			}, opts...)
			defer response.Body.Close()

			s.Equal(tc.wantStatus, response.StatusCode)
		})
	}
}

func (s *OrderHandlerTestSuite) TestCreateOrderInsufficientFunds() {
	jwtToken := s.tokenFor(1)

	s.mockOrderService.EXPECT().
		Create(gomock.Any(), int64(1), gomock.Any()).
		Return(nil, fmt.Errorf("creating order: %w", domain.ErrInsufficientFunds))

	response := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + OrdersRoute,
		Body: bytes.NewReader([]byte(`{
			"gameID": 1, "serverID": 2, "boostTypeID": 3,
			"gameAccount": "acc", "gamePassword": "pass",
			"currentLevel": "10", "targetLevel": "60",
			"price": 5000
		}`)),
	}, testutils.WithHeader("Content-Type", "application/json"), testutils.WithBearer(jwtToken))
	defer response.Body.Close()

	s.Equal(http.StatusPaymentRequired, response.StatusCode)
}

func (s *OrderHandlerTestSuite) lifecycleRequest(url string, token string) *http.Response {
	return testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    url,
	}, testutils.WithBearer(token))
}

func (s *OrderHandlerTestSuite) TestAcceptOrder() {
	var boosterID int64 = 2
	jwtToken := s.tokenFor(boosterID)

	accepted := &domain.Order{
		ID:        7,
		OrderNo:   "DL202601021530450042",
		PlayerID:  1,
		BoosterID: &boosterID,
		Status:    domain.OrderStatusAccepted,
	}
	s.mockOrderService.EXPECT().
		Accept(gomock.Any(), boosterID, int64(7)).
		Return(accepted, nil)

	response := s.lifecycleRequest(RouteGroup+"/orders/7/accept", jwtToken)
	defer response.Body.Close()

	s.Equal(http.StatusOK, response.StatusCode)
}

func (s *OrderHandlerTestSuite) TestAcceptOrderConflict() {
	jwtToken := s.tokenFor(2)

	s.mockOrderService.EXPECT().
		Accept(gomock.Any(), int64(2), int64(7)).
		Return(nil, domain.NewInvalidStateError("DL202601021530450042", domain.OrderStatusAccepted, "accept"))

	response := s.lifecycleRequest(RouteGroup+"/orders/7/accept", jwtToken)
	defer response.Body.Close()

	s.Equal(http.StatusConflict, response.StatusCode)
}

func (s *OrderHandlerTestSuite) TestConfirmOrderForbidden() {
	jwtToken := s.tokenFor(3)

	s.mockOrderService.EXPECT().
		Confirm(gomock.Any(), int64(3), int64(7)).
		Return(nil, fmt.Errorf("confirming order 7: %w", domain.ErrForbidden))

	response := s.lifecycleRequest(RouteGroup+"/orders/7/confirm", jwtToken)
	defer response.Body.Close()

	s.Equal(http.StatusForbidden, response.StatusCode)
}

func (s *OrderHandlerTestSuite) TestShowOrderByOrderNo() {
	jwtToken := s.tokenFor(1)

	s.mockOrderService.EXPECT().
		GetByOrderNo(gomock.Any(), int64(1), "DL202601021530450042").
		Return(&domain.Order{
			ID:       7,
			OrderNo:  "DL202601021530450042",
			PlayerID: 1,
			Status:   domain.OrderStatusPending,
		}, nil)

	response := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + "/orders/DL202601021530450042",
	}, testutils.WithBearer(jwtToken))
	defer response.Body.Close()

	s.Equal(http.StatusOK, response.StatusCode)
}

func (s *OrderHandlerTestSuite) TestShowOrderBadID() {
	jwtToken := s.tokenFor(1)

	response := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + "/orders/abc",
	}, testutils.WithBearer(jwtToken))
	defer response.Body.Close()

	s.Equal(http.StatusNotFound, response.StatusCode)
}

// Параметры пагинации и фильтра по игре обязаны дойти до слоя репозитория.
func (s *OrderHandlerTestSuite) TestListOrdersPassesFilters() {
	jwtToken := s.tokenFor(1)

	s.mockUserService.EXPECT().
		Profile(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1, Role: domain.RoleBooster, Status: domain.UserStatusActive}, nil)
	s.mockOrderService.EXPECT().
		ListForUser(gomock.Any(), repoargs.OrderList{
			UserID: 1,
			Role:   domain.RoleBooster,
			Status: domain.OrderStatusPending,
			GameID: 3,
			Limit:  10,
			Offset: 10,
		}).
		Return([]domain.Order{{ID: 7, OrderNo: "DL202601021530450042", PlayerID: 2}}, nil)

	response := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + OrdersRoute + "?status=PENDING&gameID=3&page=2&limit=10",
	}, testutils.WithBearer(jwtToken))
	defer response.Body.Close()

	s.Equal(http.StatusOK, response.StatusCode)
}

func (s *OrderHandlerTestSuite) TestListOrdersEmpty() {
	jwtToken := s.tokenFor(1)

	s.mockUserService.EXPECT().
		Profile(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1, Role: domain.RolePlayer, Status: domain.UserStatusActive}, nil)
	s.mockOrderService.EXPECT().
		ListForUser(gomock.Any(), gomock.Any()).
		Return(nil, nil)

	response := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + OrdersRoute,
	}, testutils.WithBearer(jwtToken))
	defer response.Body.Close()

	s.Equal(http.StatusNoContent, response.StatusCode)
}
