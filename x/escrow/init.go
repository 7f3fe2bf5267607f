package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

const optKey = "escrow"

// Initializer loads the escrow configuration and any initial escrow
// instances from the genesis options. Funded genesis escrows mint
// their balance directly onto the escrow account, which is only
// acceptable before the first transaction.
type Initializer struct {
	Minter cash.Minter
}

var _ custody.Initializer = (*Initializer)(nil)

// genesisEscrow is the json shape of one pre-seeded instance.
type genesisEscrow struct {
	Owner       custody.Address `json:"owner"`
	Depositor   custody.Address `json:"depositor"`
	Beneficiary custody.Address `json:"beneficiary"`
	Arbiter     custody.Address `json:"arbiter"`
	Amount      coin.Amount     `json:"amount"`
	Memo        string          `json:"memo"`
}

// FromGenesis parses the escrow options from the genesis and saves
// configuration and initial instances to the database.
func (i *Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var fixture struct {
		Configuration *Configuration  `json:"configuration"`
		Initial       []genesisEscrow `json:"initial"`
	}
	if err := opts.ReadOptions(optKey, &fixture); err != nil {
		return errors.Wrap(err, "cannot parse escrow genesis options")
	}

	conf := fixture.Configuration
	if conf == nil {
		conf = defaultConfiguration()
	}
	if err := saveConfiguration(db, conf); err != nil {
		return errors.Wrap(err, "configuration")
	}

	bucket := NewBucket()
	for n, g := range fixture.Initial {
		owner := g.Owner
		if owner == nil {
			owner = g.Depositor
		}
		id := escrowSeq.NextVal(db)
		esc := NewEscrow(id, owner, g.Depositor, g.Beneficiary, g.Arbiter, g.Memo)
		if g.Amount.IsPositive() {
			if i.Minter == nil {
				return errors.Wrapf(errors.ErrHuman, "escrow #%d: no minter for funded genesis escrow", n)
			}
			if err := i.Minter.CoinMint(db, esc.Address, g.Amount); err != nil {
				return errors.Wrapf(err, "escrow #%d", n)
			}
			esc.Balance = g.Amount
			esc.Phase = PhaseFunded
		}
		if err := bucket.Put(db, id, esc); err != nil {
			return errors.Wrapf(err, "escrow #%d", n)
		}
	}
	return nil
}
