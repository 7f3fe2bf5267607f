/*
Package x holds the interfaces shared by the extensions, most notably
the Authenticator used for all capability checks: every operation
compares the authenticated caller conditions against the role addresses
stored on the model, nothing is ever implicit.
*/
package x

import (
	"github.com/iov-one/custody"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding one for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper.
	GetConditions(custody.Context) []custody.Condition

	// HasAddress checks if any condition matches this address.
	HasAddress(custody.Context, custody.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators.
func (m MultiAuth) GetConditions(ctx custody.Context) []custody.Condition {
	var res []custody.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator supports this.
func (m MultiAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator.
func GetAddresses(ctx custody.Context, auth Authenticator) []custody.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]custody.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil.
func MainSigner(ctx custody.Context, auth Authenticator) custody.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in the context.
func HasAllAddresses(ctx custody.Context, auth Authenticator, required []custody.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// AnyAddress returns true if at least one of the given addresses is
// authenticated in the context. Nil addresses are skipped, so optional
// roles can be passed without a check at the call site.
func AnyAddress(ctx custody.Context, auth Authenticator, addrs ...custody.Address) bool {
	for _, a := range addrs {
		if a == nil {
			continue
		}
		if auth.HasAddress(ctx, a) {
			return true
		}
	}
	return false
}
