package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from the genesis file.
// Addresses are hex encoded there, not base64.
type GenesisAccount struct {
	Address custody.Address `json:"address"`
	Balance coin.Amount     `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database.
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	accounts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accounts); err != nil {
		return errors.Wrap(err, "cannot parse cash genesis options")
	}
	bucket := NewBucket()
	for i, acct := range accounts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		wallet := Wallet{
			Address: acct.Address,
			Balance: acct.Balance,
		}
		if err := bucket.Save(db, &wallet); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
