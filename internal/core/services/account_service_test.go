package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/core/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountIDs(ctx context.Context, limit int, offset int) ([]string, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountRepository) CompareAndSetBalance(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal, newVersion int64, updatedAt time.Time) error {
	args := m.Called(ctx, accountID, expectedVersion, newBalance, newVersion, updatedAt)
	return args.Error(0)
}

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  *services.AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func ptr[T any](v T) *T { return &v }

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	initial := decimal.RequireFromString("120.50")
	req := dto.CreateAccountRequest{
		FullName:       "  Ada Lovelace ",
		Email:          "ada@example.com",
		DateOfBirth:    ptr("1990-12-10"),
		InitialBalance: &initial,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	acc, err := suite.service.CreateAccount(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(acc)
	suite.NotEmpty(acc.AccountID)
	suite.Equal("Ada Lovelace", acc.FullName)
	suite.Equal(int64(0), acc.Version)
	suite.True(acc.NotificationsEnabled)
	suite.True(acc.Balance.Equal(initial))
	suite.True(acc.OpeningBalance.Equal(initial))
	suite.Require().NotNil(acc.DateOfBirth)
	suite.Equal("1990-12-10", acc.DateOfBirth.Format(dto.DateLayout))
	suite.Equal(actorID, acc.CreatedBy)
	suite.WithinDuration(time.Now(), acc.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Defaults() {
	ctx := context.Background()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Balance.IsZero() && a.CreatedBy == domain.SystemActor && !a.NotificationsEnabled
	})).Return(nil).Once()

	acc, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{FullName: "Quiet", NotificationsEnabled: ptr(false)}, "")

	suite.Require().NoError(err)
	suite.False(acc.CanNotify())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ValidationErrors() {
	negative := decimal.RequireFromString("-1")
	fractional := decimal.RequireFromString("1.005")
	tests := []struct {
		name string
		req  dto.CreateAccountRequest
	}{
		{name: "blank name", req: dto.CreateAccountRequest{FullName: "   "}},
		{name: "bad date", req: dto.CreateAccountRequest{FullName: "A", DateOfBirth: ptr("10/12/1990")}},
		{name: "future date", req: dto.CreateAccountRequest{FullName: "A", DateOfBirth: ptr(time.Now().AddDate(1, 0, 0).Format(dto.DateLayout))}},
		{name: "negative balance", req: dto.CreateAccountRequest{FullName: "A", InitialBalance: &negative}},
		{name: "sub-cent balance", req: dto.CreateAccountRequest{FullName: "A", InitialBalance: &fractional}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			acc, err := suite.service.CreateAccount(context.Background(), tt.req, "user")
			suite.Nil(acc)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	acc, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{FullName: "Err"}, "user")

	suite.Require().Error(err)
	suite.Nil(acc)
	suite.ErrorIs(err, assert.AnError)
	suite.ErrorIs(err, apperrors.ErrTransient)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateIsAlreadyExists() {
	ctx := context.Background()
	dupErr := fmt.Errorf("%w: account with ID x already exists", apperrors.ErrDuplicate)
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(dupErr).Once()

	acc, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{FullName: "Twice"}, "user")

	suite.Require().Error(err)
	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Equal(apperrors.KindAlreadyExists, apperrors.KindOf(err))
	suite.Equal(apperrors.StatusConflict, apperrors.StatusOf(err))
	suite.NotErrorIs(err, apperrors.ErrTransient)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_Success() {
	ctx := context.Background()
	testID := uuid.NewString()
	expected := &domain.Account{AccountID: testID, FullName: "Found", Balance: decimal.RequireFromString("3.00"), Version: 4}

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(expected, nil).Once()

	acc, err := suite.service.GetAccountByID(ctx, testID)

	suite.Require().NoError(err)
	suite.Equal(expected, acc)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	testID := uuid.NewString()
	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, apperrors.ErrNotFound).Once()

	acc, err := suite.service.GetAccountByID(ctx, testID)

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_RepoError() {
	ctx := context.Background()
	testID := uuid.NewString()
	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, assert.AnError).Once()

	acc, err := suite.service.GetAccountByID(ctx, testID)

	suite.Nil(acc)
	suite.ErrorIs(err, assert.AnError)
	suite.Equal(apperrors.StatusTransientFailure, apperrors.StatusOf(err))
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
