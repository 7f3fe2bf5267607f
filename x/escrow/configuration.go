package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// configurationKey is where the package configuration lives in the store.
var configurationKey = []byte("_c:escrow")

// Configuration is the runtime tunable behaviour of the escrow package.
// It is written once from the genesis options and read by the handlers.
type Configuration struct {
	// AllowSelfEscrow permits the depositor and the beneficiary to be
	// the same identity. Off by default.
	AllowSelfEscrow bool
	// MaxMemoSize is the longest memo the handlers accept. It can only
	// tighten the hard limit of the model, never extend it.
	MaxMemoSize int32
}

// Validate ensures the configuration can be enforced.
func (c *Configuration) Validate() error {
	if c.MaxMemoSize <= 0 {
		return errors.Wrap(errors.ErrInput, "max memo size must be positive")
	}
	if c.MaxMemoSize > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "max memo size above hard limit %d", maxMemoSize)
	}
	return nil
}

// defaultConfiguration is used when the genesis did not provide one.
func defaultConfiguration() *Configuration {
	return &Configuration{
		AllowSelfEscrow: false,
		MaxMemoSize:     maxMemoSize,
	}
}

// loadConfiguration returns the stored configuration or the defaults if
// none was ever saved.
func loadConfiguration(db custody.ReadOnlyKVStore) (*Configuration, error) {
	raw := db.Get(configurationKey)
	if raw == nil {
		return defaultConfiguration(), nil
	}
	var c Configuration
	if err := c.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "cannot deserialize configuration")
	}
	return &c, nil
}

// saveConfiguration validates and persists the configuration.
func saveConfiguration(db custody.KVStore, c *Configuration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	raw, err := c.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize configuration")
	}
	db.Set(configurationKey, raw)
	return nil
}
