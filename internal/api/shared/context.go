package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/squad-api/internal/domain"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// AccountIDContextKey holds the account id asserted by a verified bearer token.
	AccountIDContextKey ContextKey = "accountID"

	// AccountContextKey holds the *domain.Account resolved by the local login gate.
	AccountContextKey ContextKey = "account"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a fresh 32-character hex trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// WithTraceID adds the given trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithAccountID returns a copy of ctx carrying the authenticated account id.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountIDContextKey, accountID)
}

// AccountIDFromContext returns the authenticated account id, if any.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountIDContextKey).(string)
	return id, ok && id != ""
}

// WithAccount returns a copy of ctx carrying the account resolved at login.
func WithAccount(ctx context.Context, account *domain.Account) context.Context {
	return context.WithValue(ctx, AccountContextKey, account)
}

// AccountFromContext returns the account resolved at login, if any.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(AccountContextKey).(*domain.Account)
	return account, ok && account != nil
}
