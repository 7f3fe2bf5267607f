package custodytest

import (
	"context"

	"github.com/iov-one/custody"
)

// Auth is a mock authenticator that returns a fixed set of conditions,
// ignoring the context.
type Auth struct {
	// Signer is returned if no Signers are set.
	Signer custody.Condition
	// Signers are all the conditions this authenticator vouches for.
	Signers []custody.Condition
}

func (a *Auth) GetConditions(custody.Context) []custody.Condition {
	if len(a.Signers) > 0 {
		return a.Signers
	}
	if a.Signer != nil {
		return []custody.Condition{a.Signer}
	}
	return nil
}

func (a *Auth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is an authenticator that reads conditions from the context,
// under a key chosen at construction. Use it when different calls in
// one test need different callers.
type CtxAuth struct {
	Key string
}

type ctxAuthKey struct{ name string }

// SetConditions stores the given conditions in the context for later
// retrieval by this authenticator.
func (a *CtxAuth) SetConditions(ctx custody.Context, conds ...custody.Condition) custody.Context {
	return context.WithValue(ctx, ctxAuthKey{a.Key}, conds)
}

func (a *CtxAuth) GetConditions(ctx custody.Context) []custody.Condition {
	conds, ok := ctx.Value(ctxAuthKey{a.Key}).([]custody.Condition)
	if !ok {
		return nil
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
