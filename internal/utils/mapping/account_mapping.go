package mapping

import (
	"database/sql"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	m := models.Account{
		AccountID:            d.AccountID,
		FullName:             d.FullName,
		Email:                d.Email,
		Balance:              d.Balance,
		OpeningBalance:       d.OpeningBalance,
		Version:              d.Version,
		NotificationsEnabled: d.NotificationsEnabled,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
	if d.DateOfBirth != nil {
		m.DateOfBirth = sql.NullTime{Time: *d.DateOfBirth, Valid: true}
	}
	return m
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	d := domain.Account{
		AccountID:            m.AccountID,
		FullName:             m.FullName,
		Email:                m.Email,
		Balance:              m.Balance,
		OpeningBalance:       m.OpeningBalance,
		Version:              m.Version,
		NotificationsEnabled: m.NotificationsEnabled,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
	if m.DateOfBirth.Valid {
		dob := m.DateOfBirth.Time
		d.DateOfBirth = &dob
	}
	return d
}
