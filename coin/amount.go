package coin

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/iov-one/custody/errors"
)

// Amount is a quantity of the one native value unit the ledger supports.
// It is never negative; all arithmetic is checked and fails with
// errors.ErrOverflow instead of wrapping around silently.
type Amount uint64

// NewAmount is a readable constructor for literal values.
func NewAmount(value uint64) Amount {
	return Amount(value)
}

// Add combines two amounts.
// Returns ErrOverflow if the combination exceeds the type range.
func (a Amount) Add(o Amount) (Amount, error) {
	sum := a + o
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, o)
	}
	return sum, nil
}

// Sub removes the given amount.
// Returns ErrAmount if the result would be negative, as no negative
// value can ever be held in custody.
func (a Amount) Sub(o Amount) (Amount, error) {
	if o > a {
		return 0, errors.Wrapf(errors.ErrAmount, "%d - %d", a, o)
	}
	return a - o, nil
}

// IsZero returns true for an empty amount.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// String provides a human readable representation of the amount.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

var humanAmountRx = regexp.MustCompile(`^\s*(\d+)\s*$`)

// ParseAmount parses a human readable amount representation, a plain
// unsigned decimal number.
func ParseAmount(raw string) (Amount, error) {
	results := humanAmountRx.FindStringSubmatch(raw)
	if results == nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid amount format: %q", raw)
	}
	value, err := strconv.ParseUint(results[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid amount value: %s", err)
	}
	return Amount(value), nil
}

// UnmarshalJSON accepts both a JSON number and a human readable string,
// so that genesis files can use whichever reads better.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		value, err := ParseAmount(human)
		if err != nil {
			return err
		}
		*a = value
		return nil
	}

	var value uint64
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}
	*a = Amount(value)
	return nil
}

// Set updates this amount to what is provided. This method implements
// the flag.Value interface.
func (a *Amount) Set(raw string) error {
	value, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = value
	return nil
}
