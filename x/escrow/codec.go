package escrow

import (
	"io"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

// All entities and messages of this package are serialized with hand
// maintained codecs on the protobuf wire primitives. Field numbers are
// part of the stored state format and must never be reassigned.
//
//	message Escrow {
//	  bytes owner = 1;
//	  bytes depositor = 2;
//	  bytes beneficiary = 3;
//	  bytes arbiter = 4;
//	  uint64 balance = 5;
//	  int32 phase = 6;
//	  string memo = 7;
//	  bytes address = 8;
//	}

const (
	wireVarint = 0
	wireBytes  = 2
)

func encBytes(buf *proto.Buffer, field uint64, value []byte) {
	if len(value) == 0 {
		return
	}
	_ = buf.EncodeVarint(field<<3 | wireBytes)
	_ = buf.EncodeRawBytes(value)
}

func encUint(buf *proto.Buffer, field uint64, value uint64) {
	if value == 0 {
		return
	}
	_ = buf.EncodeVarint(field<<3 | wireVarint)
	_ = buf.EncodeVarint(value)
}

// decodeLoop drives one deserialization. The field callback is invoked
// with the field number and wire type of each field present and reads
// the payload from the same buffer.
func decodeLoop(data []byte, field func(buf *proto.Buffer, fieldnum, wiretype uint64) error) error {
	buf := proto.NewBuffer(data)
	for {
		tag, err := buf.DecodeVarint()
		if err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(errors.ErrInput, "malformed field tag")
		}
		if err := field(buf, tag>>3, tag&0x7); err != nil {
			return err
		}
	}
}

func errField(name string) error {
	return errors.Wrap(errors.ErrInput, name)
}

// Marshal serializes the escrow using the protobuf wire format.
func (e *Escrow) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	encBytes(buf, 1, e.Owner)
	encBytes(buf, 2, e.Depositor)
	encBytes(buf, 3, e.Beneficiary)
	encBytes(buf, 4, e.Arbiter)
	encUint(buf, 5, uint64(e.Balance))
	encUint(buf, 6, uint64(e.Phase))
	encBytes(buf, 7, []byte(e.Memo))
	encBytes(buf, 8, e.Address)
	return buf.Bytes(), nil
}

// Unmarshal deserializes the escrow from the protobuf wire format.
func (e *Escrow) Unmarshal(data []byte) error {
	*e = Escrow{}
	return decodeLoop(data, func(buf *proto.Buffer, fieldnum, wiretype uint64) error {
		switch {
		case fieldnum == 1 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("owner")
			}
			e.Owner = raw
		case fieldnum == 2 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("depositor")
			}
			e.Depositor = raw
		case fieldnum == 3 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("beneficiary")
			}
			e.Beneficiary = raw
		case fieldnum == 4 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("arbiter")
			}
			e.Arbiter = raw
		case fieldnum == 5 && wiretype == wireVarint:
			val, err := buf.DecodeVarint()
			if err != nil {
				return errField("balance")
			}
			e.Balance = coin.Amount(val)
		case fieldnum == 6 && wiretype == wireVarint:
			val, err := buf.DecodeVarint()
			if err != nil {
				return errField("phase")
			}
			e.Phase = Phase(val)
		case fieldnum == 7 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("memo")
			}
			e.Memo = string(raw)
		case fieldnum == 8 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("address")
			}
			e.Address = raw
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field %d", fieldnum)
		}
		return nil
	})
}

// Marshal serializes the configuration using the protobuf wire format.
func (c *Configuration) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	if c.AllowSelfEscrow {
		encUint(buf, 1, 1)
	}
	encUint(buf, 2, uint64(c.MaxMemoSize))
	return buf.Bytes(), nil
}

// Unmarshal deserializes the configuration from the protobuf wire format.
func (c *Configuration) Unmarshal(data []byte) error {
	*c = Configuration{}
	return decodeLoop(data, func(buf *proto.Buffer, fieldnum, wiretype uint64) error {
		switch {
		case fieldnum == 1 && wiretype == wireVarint:
			val, err := buf.DecodeVarint()
			if err != nil {
				return errField("allow_self_escrow")
			}
			c.AllowSelfEscrow = val != 0
		case fieldnum == 2 && wiretype == wireVarint:
			val, err := buf.DecodeVarint()
			if err != nil {
				return errField("max_memo_size")
			}
			c.MaxMemoSize = int32(val)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field %d", fieldnum)
		}
		return nil
	})
}

// Marshal serializes the message using the protobuf wire format.
func (m *CreateMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	encBytes(buf, 1, m.Depositor)
	encBytes(buf, 2, m.Beneficiary)
	encBytes(buf, 3, m.Arbiter)
	encBytes(buf, 4, []byte(m.Memo))
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (m *CreateMsg) Unmarshal(data []byte) error {
	*m = CreateMsg{}
	return decodeLoop(data, func(buf *proto.Buffer, fieldnum, wiretype uint64) error {
		switch {
		case fieldnum == 1 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("depositor")
			}
			m.Depositor = raw
		case fieldnum == 2 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("beneficiary")
			}
			m.Beneficiary = raw
		case fieldnum == 3 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("arbiter")
			}
			m.Arbiter = raw
		case fieldnum == 4 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("memo")
			}
			m.Memo = string(raw)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field %d", fieldnum)
		}
		return nil
	})
}

// Marshal serializes the message using the protobuf wire format.
func (m *FundMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	encBytes(buf, 1, m.EscrowID)
	encUint(buf, 2, uint64(m.Amount))
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (m *FundMsg) Unmarshal(data []byte) error {
	*m = FundMsg{}
	return decodeLoop(data, func(buf *proto.Buffer, fieldnum, wiretype uint64) error {
		switch {
		case fieldnum == 1 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("escrow id")
			}
			m.EscrowID = raw
		case fieldnum == 2 && wiretype == wireVarint:
			val, err := buf.DecodeVarint()
			if err != nil {
				return errField("amount")
			}
			m.Amount = coin.Amount(val)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field %d", fieldnum)
		}
		return nil
	})
}

// marshalID serializes a message that carries only an escrow id.
func marshalID(id []byte) ([]byte, error) {
	buf := proto.NewBuffer(nil)
	encBytes(buf, 1, id)
	return buf.Bytes(), nil
}

// unmarshalID deserializes a message that carries only an escrow id.
func unmarshalID(data []byte) ([]byte, error) {
	var id []byte
	err := decodeLoop(data, func(buf *proto.Buffer, fieldnum, wiretype uint64) error {
		if fieldnum != 1 || wiretype != wireBytes {
			return errors.Wrapf(errors.ErrInput, "unknown field %d", fieldnum)
		}
		raw, err := buf.DecodeRawBytes(true)
		if err != nil {
			return errField("escrow id")
		}
		id = raw
		return nil
	})
	return id, err
}

// Marshal serializes the message using the protobuf wire format.
func (m *ReleaseMsg) Marshal() ([]byte, error) { return marshalID(m.EscrowID) }

// Unmarshal deserializes the message from the protobuf wire format.
func (m *ReleaseMsg) Unmarshal(data []byte) error {
	id, err := unmarshalID(data)
	*m = ReleaseMsg{EscrowID: id}
	return err
}

// Marshal serializes the message using the protobuf wire format.
func (m *RefundMsg) Marshal() ([]byte, error) { return marshalID(m.EscrowID) }

// Unmarshal deserializes the message from the protobuf wire format.
func (m *RefundMsg) Unmarshal(data []byte) error {
	id, err := unmarshalID(data)
	*m = RefundMsg{EscrowID: id}
	return err
}

// Marshal serializes the message using the protobuf wire format.
func (m *DisputeMsg) Marshal() ([]byte, error) { return marshalID(m.EscrowID) }

// Unmarshal deserializes the message from the protobuf wire format.
func (m *DisputeMsg) Unmarshal(data []byte) error {
	id, err := unmarshalID(data)
	*m = DisputeMsg{EscrowID: id}
	return err
}

// Marshal serializes the message using the protobuf wire format.
func (m *CancelMsg) Marshal() ([]byte, error) { return marshalID(m.EscrowID) }

// Unmarshal deserializes the message from the protobuf wire format.
func (m *CancelMsg) Unmarshal(data []byte) error {
	id, err := unmarshalID(data)
	*m = CancelMsg{EscrowID: id}
	return err
}

// Marshal serializes the message using the protobuf wire format.
func (m *UpdateMemoMsg) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	encBytes(buf, 1, m.EscrowID)
	encBytes(buf, 2, []byte(m.Memo))
	return buf.Bytes(), nil
}

// Unmarshal deserializes the message from the protobuf wire format.
func (m *UpdateMemoMsg) Unmarshal(data []byte) error {
	*m = UpdateMemoMsg{}
	return decodeLoop(data, func(buf *proto.Buffer, fieldnum, wiretype uint64) error {
		switch {
		case fieldnum == 1 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("escrow id")
			}
			m.EscrowID = raw
		case fieldnum == 2 && wiretype == wireBytes:
			raw, err := buf.DecodeRawBytes(true)
			if err != nil {
				return errField("memo")
			}
			m.Memo = string(raw)
		default:
			return errors.Wrapf(errors.ErrInput, "unknown field %d", fieldnum)
		}
		return nil
	})
}
