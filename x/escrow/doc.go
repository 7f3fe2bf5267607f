/*
Package escrow implements the custody state machine.

An Escrow holds value contributed by a depositor and releases or
returns it according to an authorization protocol between the
depositor, the beneficiary and an optional arbiter. Each operation is
an atomic transition: every guard is validated up front, value moves
through the cash controller, and the post-transfer state is committed
only after the transfer succeeded. A per-instance guard rejects any
call that re-enters an in-flight release or refund.
*/
package escrow
