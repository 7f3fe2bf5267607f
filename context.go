package custody

import (
	"context"
	"regexp"

	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is just the request-scoped context.Context, consult that
// documentation for the semantics. The host adapter prepares one context
// per call, carrying the authenticated caller conditions, the attached
// call value and the chain metadata.
type Context = context.Context

// DefaultLogger is used for all contexts that have not
// set anything themselves.
var DefaultLogger = log.NewNopLogger()

// IsValidChainID is the RegExp to ensure valid chain IDs.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

type contextKey int // local to the custody module

const (
	contextKeyChainID contextKey = iota
	contextKeyHeight
	contextKeyLogger
	contextKeyValue
)

// WithChainID sets the chain id for the Context.
// Panics if the chain id was already set or is invalid.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic("invalid chain id: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id from the context.
// Panics if not yet set, as this indicates a setup error in the host
// adapter, not a runtime condition.
func GetChainID(ctx Context) string {
	if ctx.Value(contextKeyChainID) == nil {
		panic("chain id not set")
	}
	return ctx.Value(contextKeyChainID).(string)
}

// WithHeight sets the block height for the Context.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the block height from the context, and whether
// it was set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithLogger sets the logger for this Context.
func WithLogger(ctx Context, logger log.Logger) Context {
	// Logger can be overridden below... no problem.
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger stored in the Context, or DefaultLogger
// if none was set.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}

// WithAttachedValue declares the native value the host transferred
// together with this call. This is the amount the caller paid into the
// call, as confirmed by the host ledger, never caller-declared input.
func WithAttachedValue(ctx Context, value coin.Amount) Context {
	return context.WithValue(ctx, contextKeyValue, value)
}

// AttachedValue returns the native value the host attached to this call,
// and whether any value was attached at all.
func AttachedValue(ctx Context) (coin.Amount, bool) {
	val, ok := ctx.Value(contextKeyValue).(coin.Amount)
	return val, ok
}

// MustAttachedValue returns the attached value or an error if the host
// did not declare one. Value-consuming operations must not guess.
func MustAttachedValue(ctx Context) (coin.Amount, error) {
	val, ok := AttachedValue(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrInput, "no value attached to the call")
	}
	return val, nil
}
