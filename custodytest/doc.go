// Package custodytest provides mocks and helpers for testing the
// custody module: deterministic authenticators, throwaway conditions
// and a trivial transaction wrapper.
package custodytest
