package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/errors"
)

func TestAmountAdd(t *testing.T) {
	sum, err := NewAmount(100).Add(23)
	require.NoError(t, err)
	assert.Equal(t, Amount(123), sum)

	_, err = NewAmount(math.MaxUint64).Add(1)
	assert.True(t, errors.ErrOverflow.Is(err), "got %+v", err)

	// The maximum itself is still fine.
	sum, err = NewAmount(math.MaxUint64 - 5).Add(5)
	require.NoError(t, err)
	assert.Equal(t, Amount(math.MaxUint64), sum)
}

func TestAmountSub(t *testing.T) {
	diff, err := NewAmount(100).Sub(23)
	require.NoError(t, err)
	assert.Equal(t, Amount(77), diff)

	diff, err = NewAmount(100).Sub(100)
	require.NoError(t, err)
	assert.True(t, diff.IsZero())

	_, err = NewAmount(100).Sub(101)
	assert.True(t, errors.ErrAmount.Is(err), "got %+v", err)
}

func TestAmountPredicates(t *testing.T) {
	assert.True(t, NewAmount(0).IsZero())
	assert.False(t, NewAmount(0).IsPositive())
	assert.False(t, NewAmount(1).IsZero())
	assert.True(t, NewAmount(1).IsPositive())
}

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		want    Amount
		wantErr bool
	}{
		"0":                    {want: 0},
		"123":                  {want: 123},
		"  99 ":                {want: 99},
		"18446744073709551615": {want: math.MaxUint64},
		"18446744073709551616": {wantErr: true},
		"-1":                   {wantErr: true},
		"1.5":                  {wantErr: true},
		"":                     {wantErr: true},
		"12three":              {wantErr: true},
	}
	for raw, tc := range cases {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseAmount(raw)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var fromNumber Amount
	require.NoError(t, json.Unmarshal([]byte(`543`), &fromNumber))
	assert.Equal(t, Amount(543), fromNumber)

	var fromString Amount
	require.NoError(t, json.Unmarshal([]byte(`"543"`), &fromString))
	assert.Equal(t, Amount(543), fromString)

	var bad Amount
	assert.Error(t, json.Unmarshal([]byte(`"54x"`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`-4`), &bad))
}

func TestAmountFlagValue(t *testing.T) {
	var a Amount
	require.NoError(t, a.Set("77"))
	assert.Equal(t, Amount(77), a)
	assert.Equal(t, "77", a.String())
	assert.Error(t, a.Set("nope"))
}
