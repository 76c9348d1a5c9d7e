package api

import (
	"context"

	"vehicletracker/pkg/token"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// Actor is the authenticated identity attached to every request past the auth
// middleware. It comes straight from verified token claims; no DB lookup.
type Actor struct {
	ID       string
	Username string
	FullName string
	Email    string
	Role     string
}

func (a *Actor) IsAdmin() bool { return a != nil && a.Role == "admin" }

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

func ActorFromContext(ctx context.Context) *Actor {
	v := ctx.Value(ctxKeyActor)
	if v == nil {
		return nil
	}
	a, _ := v.(*Actor)
	return a
}

func actorFromClaims(c *token.Claims) *Actor {
	return &Actor{
		ID:       c.UserID,
		Username: c.Username,
		FullName: c.FullName,
		Email:    c.Email,
		Role:     c.Role,
	}
}
