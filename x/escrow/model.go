package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Phase is the lifecycle stage of one escrow instance. Transitions are
// one-directional except Disputed, which resolves to either Released or
// Refunded. Released and Refunded are terminal.
type Phase int32

const (
	// PhaseInvalid marks a zero value that was never initialized.
	PhaseInvalid Phase = 0
	// PhaseCreated is the initial phase, before any value arrived.
	PhaseCreated Phase = 1
	// PhaseFunded means the full deposit is held in custody.
	PhaseFunded Phase = 2
	// PhaseDisputed means a party escalated and only the arbiter may resolve.
	PhaseDisputed Phase = 3
	// PhaseReleased means the funds were paid out to the beneficiary.
	PhaseReleased Phase = 4
	// PhaseRefunded means the funds went back to the depositor, or the
	// escrow was cancelled before any funding.
	PhaseRefunded Phase = 5
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseFunded:
		return "funded"
	case PhaseDisputed:
		return "disputed"
	case PhaseReleased:
		return "released"
	case PhaseRefunded:
		return "refunded"
	default:
		return "invalid"
	}
}

// Terminal returns true if no further transition is permitted.
func (p Phase) Terminal() bool {
	return p == PhaseReleased || p == PhaseRefunded
}

// Holding returns true for the phases in which the instance may hold a
// positive balance.
func (p Phase) Holding() bool {
	return p == PhaseFunded || p == PhaseDisputed
}

// Validate returns an error unless this is a known phase.
func (p Phase) Validate() error {
	if p < PhaseCreated || p > PhaseRefunded {
		return errors.Wrapf(errors.ErrState, "phase %d", p)
	}
	return nil
}

// Escrow is the sole persistent entity: one custody agreement between a
// depositor and a beneficiary, optionally supervised by an arbiter.
// All parties are set once at creation and are immutable thereafter.
type Escrow struct {
	// Owner has administrative rights (cancel before funding). It is the
	// identity that created the instance.
	Owner custody.Address
	// Depositor funds the escrow and may trigger the release.
	Depositor custody.Address
	// Beneficiary receives released funds and may voluntarily refund.
	Beneficiary custody.Address
	// Arbiter may resolve a dispute either way. Nil for a plain
	// two-party escrow.
	Arbiter custody.Address
	// Balance is the value currently held in custody. It is derived
	// exclusively from confirmed transfers, never from caller input.
	Balance coin.Amount
	// Phase is the current lifecycle stage.
	Phase Phase
	// Memo is a free-form payment reference the depositor may attach.
	Memo string
	// Address is the account the held value lives on, derived from the
	// instance id.
	Address custody.Address
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is in a consistent state. This runs on
// every write, so the conservation invariants hold for anything that
// ever reaches the store.
func (e *Escrow) Validate() error {
	if err := e.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := e.Depositor.Validate(); err != nil {
		return errors.Wrap(err, "depositor")
	}
	if err := e.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if e.Arbiter != nil {
		if err := e.Arbiter.Validate(); err != nil {
			return errors.Wrap(err, "arbiter")
		}
	}
	if err := e.Phase.Validate(); err != nil {
		return err
	}
	if e.Balance.IsPositive() && !e.Phase.Holding() {
		return errors.Wrapf(errors.ErrState, "%s escrow cannot hold value", e.Phase)
	}
	if e.Phase.Terminal() && !e.Balance.IsZero() {
		return errors.Wrapf(errors.ErrState, "terminal escrow with balance %s", e.Balance)
	}
	if len(e.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo too long: %d", len(e.Memo))
	}
	return errors.Wrap(e.Address.Validate(), "address")
}

// Condition calculates the account condition of an escrow given its key.
func Condition(key []byte) custody.Condition {
	return custody.NewCondition("escrow", "seq", key)
}

// NewEscrow initializes a new instance in the Created phase.
func NewEscrow(id []byte, owner, depositor, beneficiary, arbiter custody.Address, memo string) *Escrow {
	return &Escrow{
		Owner:       owner,
		Depositor:   depositor,
		Beneficiary: beneficiary,
		Arbiter:     arbiter,
		Balance:     0,
		Phase:       PhaseCreated,
		Memo:        memo,
		Address:     Condition(id).Address(),
	}
}

var escrowSeq = orm.NewSequence("escrow", "id")

// Bucket is the persistence layer for escrow instances, keyed by an
// 8 byte sequence id.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the escrow bucket.
func NewBucket() Bucket {
	return Bucket{orm.NewBucket("esc")}
}

// Listed is one entry of a paginated listing.
type Listed struct {
	ID     []byte
	Escrow *Escrow
}

// List returns up to limit escrow instances in descending id order
// (newest first), skipping the first offset entries.
func (b Bucket) List(db custody.ReadOnlyKVStore, offset, limit int) ([]Listed, error) {
	if limit <= 0 {
		return nil, nil
	}
	var out []Listed
	err := b.Descend(db, func(key, value []byte) error {
		if offset > 0 {
			offset--
			return nil
		}
		if len(out) == limit {
			return errDone
		}
		var esc Escrow
		if err := esc.Unmarshal(value); err != nil {
			return errors.Wrap(err, "cannot deserialize escrow")
		}
		out = append(out, Listed{ID: append([]byte(nil), key...), Escrow: &esc})
		return nil
	})
	if err != nil && err != errDone {
		return nil, err
	}
	return out, nil
}

// errDone is a sentinel to stop a listing scan early. Never returned to
// the caller.
var errDone = errors.Wrap(errors.ErrHuman, "iteration done")

// ListEscrows is a query helper for hosts that only hold a read view of
// the state.
func ListEscrows(db custody.ReadOnlyKVStore, offset, limit int) ([]Listed, error) {
	return NewBucket().List(db, offset, limit)
}
