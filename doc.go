/*
Package custody defines the common interfaces that tie the module
together: identity conditions and addresses, the key-value storage
contracts, the message/transaction abstraction and the handler model
used to execute one custody transition per external call.

The host ledger runtime sits outside of this module. It authenticates
callers, attaches value to calls, persists the key-value data and
collects the emitted event tags. Everything the module needs from the
host arrives through a Context and a KVStore; everything it returns
travels back in a CheckResult or DeliverResult, or as an error.

We pass context through context.Context between the host adapter and
the handlers. For every value XYZ of type T stored in the context there
are two functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)
*/
package custody
