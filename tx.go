package custody

import (
	"github.com/iov-one/custody/errors"
)

// Msg is a request for the state machine to take an action (make one
// state transition). It is just the request, and must be validated by
// the Handlers. All authentication information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Path returns the routing path of the message, used by the Router
	// to locate the proper Handler. Msg should be created alongside the
	// Handler that corresponds to them.
	Path() string

	// Validate performs a sanity check on the message content that does
	// not require access to any state.
	Validate() error
}

// Marshaller is anything that can be represented in binary.
//
// Marshal may validate the data before serializing it and
// unless you previously validated the struct,
// errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as Unmarshal almost always
// requires a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx represents the data sent from the caller to the state machine.
// It includes the actual message, along with whatever the host needs
// to authenticate the sender; authentication itself happens outside of
// this module and is surfaced through x.Authenticator.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message from the transaction, ensures it is of
// the destination type and validates it. Use in every handler instead
// of a hand-written extract-cast-validate dance.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	dest, ok := destination.(Msg)
	if !ok {
		return errors.Wrapf(errors.ErrType, "%T is not a message", destination)
	}
	if dest.Path() != msg.Path() {
		return errors.Wrapf(errors.ErrType, "want %s, got %s", dest.Path(), msg.Path())
	}

	raw, err := msg.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot serialize %T message", msg)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot deserialize %T message", dest)
	}
	return nil
}
