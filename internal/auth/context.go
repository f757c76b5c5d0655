package auth

import "context"

type contextKey string

const (
	contextKeyAccount contextKey = "auth.account_id"
	contextKeyRole    contextKey = "auth.role"
	contextKeySubject contextKey = "auth.subject"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, accountID string, role Role, subject string) context.Context {
	ctx = context.WithValue(ctx, contextKeyAccount, accountID)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	ctx = context.WithValue(ctx, contextKeySubject, subject)
	return ctx
}

// AccountIDFromContext extracts the owner account id from context.
func AccountIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if accountID, ok := ctx.Value(contextKeyAccount).(string); ok {
		return accountID
	}
	return ""
}

// RoleFromContext extracts role from context.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeyRole)
	if role, ok := value.(Role); ok {
		return role
	}
	if role, ok := value.(string); ok {
		if normalized, valid := NormalizeRole(role); valid {
			return normalized
		}
	}
	return ""
}

// SubjectFromContext extracts subject from context.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if subject, ok := ctx.Value(contextKeySubject).(string); ok {
		return subject
	}
	return ""
}
