package escrow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
)

func TestMsgValidate(t *testing.T) {
	depositor := custodytest.NewCondition().Address()
	beneficiary := custodytest.NewCondition().Address()
	arbiter := custodytest.NewCondition().Address()
	id := []byte{0, 0, 0, 0, 0, 0, 0, 1}

	cases := map[string]struct {
		msg     custody.Msg
		wantErr bool
	}{
		"valid create": {
			msg: &CreateMsg{Depositor: depositor, Beneficiary: beneficiary, Arbiter: arbiter, Memo: "ok"},
		},
		"create without arbiter": {
			msg: &CreateMsg{Depositor: depositor, Beneficiary: beneficiary},
		},
		"create without depositor": {
			msg:     &CreateMsg{Beneficiary: beneficiary},
			wantErr: true,
		},
		"create without beneficiary": {
			msg:     &CreateMsg{Depositor: depositor},
			wantErr: true,
		},
		"create with short arbiter address": {
			msg:     &CreateMsg{Depositor: depositor, Beneficiary: beneficiary, Arbiter: arbiter[:5]},
			wantErr: true,
		},
		"create with oversized memo": {
			msg:     &CreateMsg{Depositor: depositor, Beneficiary: beneficiary, Memo: strings.Repeat("m", maxMemoSize+1)},
			wantErr: true,
		},
		"valid fund": {
			msg: &FundMsg{EscrowID: id, Amount: 100},
		},
		"fund with zero amount": {
			msg:     &FundMsg{EscrowID: id, Amount: 0},
			wantErr: true,
		},
		"fund with short id": {
			msg:     &FundMsg{EscrowID: []byte{1, 2, 3}, Amount: 100},
			wantErr: true,
		},
		"valid release": {
			msg: &ReleaseMsg{EscrowID: id},
		},
		"release without id": {
			msg:     &ReleaseMsg{},
			wantErr: true,
		},
		"valid refund": {
			msg: &RefundMsg{EscrowID: id},
		},
		"valid dispute": {
			msg: &DisputeMsg{EscrowID: id},
		},
		"valid cancel": {
			msg: &CancelMsg{EscrowID: id},
		},
		"valid memo update": {
			msg: &UpdateMemoMsg{EscrowID: id, Memo: "changed"},
		},
		"memo update oversized": {
			msg:     &UpdateMemoMsg{EscrowID: id, Memo: strings.Repeat("m", maxMemoSize+1)},
			wantErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMsgPaths(t *testing.T) {
	paths := map[custody.Msg]string{
		&CreateMsg{}:     "escrow/create",
		&FundMsg{}:       "escrow/fund",
		&ReleaseMsg{}:    "escrow/release",
		&RefundMsg{}:     "escrow/refund",
		&DisputeMsg{}:    "escrow/dispute",
		&CancelMsg{}:     "escrow/cancel",
		&UpdateMemoMsg{}: "escrow/memo",
	}
	for msg, want := range paths {
		assert.Equal(t, want, msg.Path())
	}
}

func TestMsgSerialization(t *testing.T) {
	depositor := custodytest.NewCondition().Address()
	beneficiary := custodytest.NewCondition().Address()
	id := []byte{0, 0, 0, 0, 0, 0, 0, 9}

	t.Run("create", func(t *testing.T) {
		msg := &CreateMsg{Depositor: depositor, Beneficiary: beneficiary, Memo: "roundtrip"}
		raw, err := msg.Marshal()
		require.NoError(t, err)
		var loaded CreateMsg
		require.NoError(t, loaded.Unmarshal(raw))
		assert.Equal(t, msg, &loaded)
	})

	t.Run("fund", func(t *testing.T) {
		msg := &FundMsg{EscrowID: id, Amount: 42}
		raw, err := msg.Marshal()
		require.NoError(t, err)
		var loaded FundMsg
		require.NoError(t, loaded.Unmarshal(raw))
		assert.Equal(t, msg, &loaded)
	})

	t.Run("memo update", func(t *testing.T) {
		msg := &UpdateMemoMsg{EscrowID: id, Memo: "changed"}
		raw, err := msg.Marshal()
		require.NoError(t, err)
		var loaded UpdateMemoMsg
		require.NoError(t, loaded.Unmarshal(raw))
		assert.Equal(t, msg, &loaded)
	})

	t.Run("truncated payload", func(t *testing.T) {
		var msg ReleaseMsg
		// Field 1, bytes wire type, declared length 5 with no data.
		assert.Error(t, msg.Unmarshal([]byte{0x0a, 0x05}))
	})
}
