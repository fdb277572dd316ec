package notification

import (
	"fmt"
	"strings"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/utils"
)

const (
	defaultGreetingName = "Valued Customer"
	dateLayout          = "Jan 2, 2006 3:04 PM MST"
)

// Alert is a rendered, plain-text transaction notification.
type Alert struct {
	To      string
	Subject string
	Body    string
}

// Render builds the alert for evt. Amounts are formatted to two decimals.
func Render(evt domain.TransactionEvent) (Alert, error) {
	to := strings.TrimSpace(evt.Recipient.Email)
	if to == "" {
		return Alert{}, fmt.Errorf("event %s has no recipient email", evt.TransactionID)
	}
	if !evt.Type.IsValid() {
		return Alert{}, fmt.Errorf("event %s has unsupported type %q", evt.TransactionID, evt.Type)
	}

	name := strings.TrimSpace(evt.Recipient.FullName)
	if name == "" {
		name = defaultGreetingName
	}
	verb := "credited to"
	if evt.Type == domain.Debit {
		verb = "debited from"
	}
	amount := utils.FormatMoney(evt.Amount)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "%s has been %s your account.\n\n", amount, verb)
	b.WriteString("Transaction details:\n")
	fmt.Fprintf(&b, "- Type: %s\n", evt.Type)
	fmt.Fprintf(&b, "- Amount: %s\n", utils.FormatSignedMoney(evt.Type, evt.Amount))
	fmt.Fprintf(&b, "- Date: %s\n", evt.OccurredAt.UTC().Format(dateLayout))
	fmt.Fprintf(&b, "- Transaction ID: %s\n", evt.TransactionID)
	fmt.Fprintf(&b, "- New balance: %s\n\n", utils.FormatMoney(evt.NewBalance))
	b.WriteString("If you did not authorize this transaction, please contact us immediately.\n")

	return Alert{
		To:      to,
		Subject: fmt.Sprintf("%s of %s - Transaction Alert", evt.Type, amount),
		Body:    b.String(),
	}, nil
}
