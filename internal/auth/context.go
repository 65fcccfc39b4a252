package auth

import (
	"context"

	"consultdesk/internal/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the authenticated principal attached to a request.
type Identity struct {
	User      models.User
	SessionID string
}

// RoleName is the user's system role name, or "" when the role was not
// loaded. Callers compare it through HasUserRole, which fails closed.
func (i Identity) RoleName() string {
	if i.User.Role == nil {
		return ""
	}
	return i.User.Role.Name
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey).(Identity)
	return v, ok
}

// UserID returns the authenticated user's id, or "".
func UserID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id.User.ID
}
