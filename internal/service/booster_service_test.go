package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/repository/repoargs"
	"github.com/fsdevblog/groph-boost/internal/service"
	"github.com/fsdevblog/groph-boost/internal/service/mocks"
	uowmocks "github.com/fsdevblog/groph-boost/pkg/uow/mocks"
)

type BoosterServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	repos    *repoSet
	notifier *mocks.MockNotifier
	boosters *service.BoosterService
}

func TestBoosterServiceSuite(t *testing.T) {
	suite.Run(t, new(BoosterServiceSuite))
}

func (s *BoosterServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repos = newRepoSet(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)

	u := uowmocks.NewMockUOW(s.ctrl)
	tx := uowmocks.NewMockTX(s.ctrl)
	s.repos.bind(u, tx)

	var err error
	s.boosters, err = service.NewBoosterService(u, s.notifier)
	s.Require().NoError(err)
}

func (s *BoosterServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BoosterServiceSuite) TestApplyCreatesUnverifiedProfile() {
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(activeUser(1, domain.RolePlayer, 0, 0), nil)
	s.repos.booster.EXPECT().
		Create(gomock.Any(), repoargs.BoosterProfileCreate{UserID: 1, RealName: "Ivan", Introduction: "pro"}).
		Return(&domain.BoosterProfile{UserID: 1, RealName: "Ivan", IsVerified: false}, nil)
	s.repos.user.EXPECT().UpdateRole(gomock.Any(), int64(1), domain.RoleBooster).
		Return(activeUser(1, domain.RoleBooster, 0, 0), nil)

	profile, err := s.boosters.Apply(context.Background(), 1, service.ApplyArgs{
		RealName:     "Ivan",
		Introduction: "pro",
	})
	s.Require().NoError(err)
	s.False(profile.IsVerified)
}

func (s *BoosterServiceSuite) TestApplyTwiceRejected() {
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(activeUser(1, domain.RoleBooster, 0, 0), nil)
	s.repos.booster.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey)

	_, err := s.boosters.Apply(context.Background(), 1, service.ApplyArgs{RealName: "Ivan"})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *BoosterServiceSuite) TestVerifyRequiresAdmin() {
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(activeUser(1, domain.RolePlayer, 0, 0), nil)

	_, err := s.boosters.Verify(context.Background(), 1, 2)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *BoosterServiceSuite) TestVerifyMarksProfileAndNotifies() {
	s.repos.user.EXPECT().FindByID(gomock.Any(), int64(9)).
		Return(activeUser(9, domain.RoleAdmin, 0, 0), nil)
	s.repos.booster.EXPECT().SetVerified(gomock.Any(), int64(2), true).
		Return(&domain.BoosterProfile{UserID: 2, IsVerified: true}, nil)
	s.notifier.EXPECT().Emit(gomock.Any(), gomock.Any())

	profile, err := s.boosters.Verify(context.Background(), 9, 2)
	s.Require().NoError(err)
	s.True(profile.IsVerified)
}
