package observability

import "context"

type userSlotKey struct{}

type userSlot struct{ id string }

func withUserSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, userSlotKey{}, &userSlot{})
}

// SetUserID records the authenticated user for the request log line.
// It is a no-op outside ZapLoggerMiddleware.
func SetUserID(ctx context.Context, id string) {
	if s, ok := ctx.Value(userSlotKey{}).(*userSlot); ok {
		s.id = id
	}
}

// UserIDFrom returns the user recorded by SetUserID, or "".
func UserIDFrom(ctx context.Context) string {
	if s, ok := ctx.Value(userSlotKey{}).(*userSlot); ok {
		return s.id
	}
	return ""
}
