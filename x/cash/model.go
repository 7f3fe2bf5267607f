package cash

import (
	"io"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Wallet is the native-unit account of one address.
type Wallet struct {
	Address custody.Address
	Balance coin.Amount
}

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the wallet is sensible.
func (w *Wallet) Validate() error {
	return errors.Wrap(w.Address.Validate(), "address")
}

// Wallet wire format:
//
//	message Wallet {
//	  bytes address = 1;
//	  uint64 balance = 2;
//	}
//
// The codec is hand maintained on the protobuf wire primitives.

// Marshal serializes the wallet using the protobuf wire format.
func (w *Wallet) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if len(w.Address) != 0 {
		_ = buf.EncodeVarint(1<<3 | 2)
		_ = buf.EncodeRawBytes(w.Address)
	}
	if w.Balance != 0 {
		_ = buf.EncodeVarint(2 << 3)
		_ = buf.EncodeVarint(uint64(w.Balance))
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes the wallet from the protobuf wire format.
func (w *Wallet) Unmarshal(data []byte) error {
	*w = Wallet{}
	buf := proto.NewBuffer(data)
	for {
		tag, err := buf.DecodeVarint()
		if err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(errors.ErrInput, "malformed field tag")
		}
		switch tag {
		case 1<<3 | 2:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errors.Wrap(errors.ErrInput, "address")
			}
			w.Address = raw
		case 2 << 3:
			val, err := buf.DecodeVarint()
			if err != nil {
				return errors.Wrap(errors.ErrInput, "balance")
			}
			w.Balance = coin.Amount(val)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field tag: %d", tag)
		}
	}
}

// Bucket is the persistence layer for wallets, keyed by address.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the wallet bucket.
func NewBucket() Bucket {
	return Bucket{orm.NewBucket("cash")}
}

// Wallet loads the wallet of the given address. A missing wallet is
// returned as an empty wallet for that address, not an error, as every
// address implicitly owns an empty account.
func (b Bucket) Wallet(db custody.ReadOnlyKVStore, addr custody.Address) (*Wallet, error) {
	w := Wallet{Address: addr}
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Address: addr}, nil
	default:
		return nil, err
	}
}

// Save persists the wallet under its address.
func (b Bucket) Save(db custody.KVStore, w *Wallet) error {
	return b.Put(db, w.Address, w)
}
