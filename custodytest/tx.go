package custodytest

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Tx is a mock transaction around a single message.
type Tx struct {
	Msg custody.Msg
	// Err, if set, is returned by GetMsg instead of the message.
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "mock tx cannot deserialize")
}
