package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// ledgerTokenPrefix ties a token to the account it was issued for.
const ledgerTokenPrefix = "ledger"

// EncodeLedgerToken creates an opaque cursor pointing after the ledger entry
// with the given sequence number.
func EncodeLedgerToken(accountID string, afterSeq int64) string {
	return EncodeMultiFieldToken(ledgerTokenPrefix, accountID, strconv.FormatInt(afterSeq, 10))
}

// DecodeLedgerToken returns the sequence encoded in token. An empty token
// means the first page.
func DecodeLedgerToken(accountID string, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 3 || parts[0] != ledgerTokenPrefix {
		return 0, fmt.Errorf("invalid pagination token format (fields)")
	}
	if parts[1] != accountID {
		return 0, fmt.Errorf("pagination token was issued for a different account")
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("invalid pagination token format (sequence)")
	}
	return seq, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
