/*
Package cash is the stand-in for the host ledger's native value
transfer primitive. It tracks one wallet per address and exposes a
Controller that can move value between wallets, failing without any
partial mutation when the source is missing or underfunded.

The escrow extension only ever talks to the Controller interface, so a
real host runtime can substitute its own transfer primitive without
touching the state machine.
*/
package cash
