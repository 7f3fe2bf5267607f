package custodytest

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/custody"
)

// NewCondition generates a fresh signature condition backed by a random
// ed25519 public key. The private key is thrown away, as the module
// never verifies signatures itself.
func NewCondition() custody.Condition {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return custody.NewCondition("sigs", "ed25519", pub)
}
