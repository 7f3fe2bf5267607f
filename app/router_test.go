package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

// echoMsg is a minimal routable message.
type echoMsg struct {
	path string
}

var _ custody.Msg = (*echoMsg)(nil)

func (m *echoMsg) Path() string              { return m.path }
func (m *echoMsg) Validate() error           { return nil }
func (m *echoMsg) Marshal() ([]byte, error)  { return []byte(m.path), nil }
func (m *echoMsg) Unmarshal(bz []byte) error { m.path = string(bz); return nil }

// echoTx wraps one message without serialization support.
type echoTx struct {
	msg custody.Msg
}

var _ custody.Tx = (*echoTx)(nil)

func (tx *echoTx) GetMsg() (custody.Msg, error) { return tx.msg, nil }
func (tx *echoTx) Marshal() ([]byte, error)     { return tx.msg.Marshal() }
func (tx *echoTx) Unmarshal([]byte) error       { return errors.ErrHuman }

// countingHandler records how often it was invoked.
type countingHandler struct {
	checked   int
	delivered int
}

var _ custody.Handler = (*countingHandler)(nil)

func (h *countingHandler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	h.checked++
	return &custody.CheckResult{Log: "checked"}, nil
}

func (h *countingHandler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	h.delivered++
	return &custody.DeliverResult{Log: "delivered"}, nil
}

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	good := &countingHandler{}
	other := &countingHandler{}
	r.Handle("good/path", good)
	r.Handle("other/path", other)

	db := store.MemStore()
	ctx := context.Background()

	res, err := r.Deliver(ctx, db, &echoTx{msg: &echoMsg{path: "good/path"}})
	require.NoError(t, err)
	assert.Equal(t, "delivered", res.Log)

	_, err = r.Check(ctx, db, &echoTx{msg: &echoMsg{path: "good/path"}})
	require.NoError(t, err)

	assert.Equal(t, 1, good.checked)
	assert.Equal(t, 1, good.delivered)
	assert.Equal(t, 0, other.checked)
	assert.Equal(t, 0, other.delivered)
}

func TestRouterUnknownPath(t *testing.T) {
	r := NewRouter()
	db := store.MemStore()
	ctx := context.Background()

	_, err := r.Deliver(ctx, db, &echoTx{msg: &echoMsg{path: "no/such/route"}})
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	_, err = r.Check(ctx, db, &echoTx{msg: &echoMsg{path: "no/such/route"}})
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

func TestRouterRegistrationRules(t *testing.T) {
	r := NewRouter()
	r.Handle("fine/path", &countingHandler{})

	assert.Panics(t, func() { r.Handle("fine/path", &countingHandler{}) })
	assert.Panics(t, func() { r.Handle("bad path!", &countingHandler{}) })
	assert.Panics(t, func() { r.Handle("", &countingHandler{}) })
}
