package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService handles account creation and lookup.
type AccountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) *AccountService {
	return &AccountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

func invalid(msg string) error {
	return apperrors.NewAppError(apperrors.KindInvalidInput, msg, nil)
}

func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, invalid("full name is required")
	}

	var dob *time.Time
	if req.DateOfBirth != nil && strings.TrimSpace(*req.DateOfBirth) != "" {
		parsed, err := time.Parse(dto.DateLayout, strings.TrimSpace(*req.DateOfBirth))
		if err != nil {
			return nil, invalid("date of birth must be formatted as YYYY-MM-DD")
		}
		if parsed.After(time.Now()) {
			return nil, invalid("date of birth cannot be in the future")
		}
		dob = &parsed
	}

	initial := decimal.Zero
	if req.InitialBalance != nil {
		initial = *req.InitialBalance
	}
	if initial.IsNegative() {
		return nil, invalid("initial balance cannot be negative")
	}
	if !domain.HasMoneyScale(initial) {
		return nil, invalid("initial balance must have at most 2 decimal places")
	}
	if initial.GreaterThan(maxBalance) {
		return nil, invalid("initial balance exceeds the maximum supported value")
	}

	notifications := true
	if req.NotificationsEnabled != nil {
		notifications = *req.NotificationsEnabled
	}

	if actorID == "" {
		actorID = domain.SystemActor
	}
	now := time.Now().UTC()
	account := domain.Account{
		AccountID:            uuid.NewString(),
		FullName:             fullName,
		Email:                strings.TrimSpace(req.Email),
		DateOfBirth:          dob,
		Balance:              domain.RoundMoney(initial),
		OpeningBalance:       domain.RoundMoney(initial),
		Version:              0,
		NotificationsEnabled: notifications,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(apperrors.KindAlreadyExists, fmt.Sprintf("account %s already exists", account.AccountID), err)
		}
		return nil, apperrors.NewAppError(apperrors.KindTransientStoreFailure, "failed to create account", err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.Bool("notifications_enabled", account.NotificationsEnabled))
	return &account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, invalid("account id is required")
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.KindNotFound, fmt.Sprintf("account %s not found", accountID), err)
		}
		s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, apperrors.NewAppError(apperrors.KindTransientStoreFailure, "failed to read account", err)
	}
	return account, nil
}
