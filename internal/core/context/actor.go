// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Roles recognized by the service. A lead can do everything an
// operator can plus day rewrites, reconciliation and settings changes.
const (
	RoleLead     = "lead"
	RoleOperator = "operator"
)

// Actor contains the authenticated user recording movements.
type Actor struct {
	ID   string
	Name string
	Role string
}

type actorKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns Actor from context.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetActorID returns actor ID from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ID
	}
	return ""
}

// HasRole checks if the actor has the given role.
// A lead satisfies any role check.
func HasRole(ctx context.Context, role string) bool {
	a := GetActor(ctx)
	if a == nil {
		return false
	}
	return a.Role == role || a.Role == RoleLead
}
