package escrow

import (
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createCost  int64 = 300
	fundCost    int64 = 100
	payoutCost  int64 = 0
	disputeCost int64 = 50
	updateCost  int64 = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, mover cash.Controller) {
	bucket := NewBucket()
	control := NewController(mover, bucket)

	r.Handle(pathCreateMsg, CreateHandler{auth, bucket})
	r.Handle(pathFundMsg, FundHandler{auth, bucket, control})
	r.Handle(pathReleaseMsg, ReleaseHandler{auth, bucket, control})
	r.Handle(pathRefundMsg, RefundHandler{auth, bucket, control})
	r.Handle(pathDisputeMsg, DisputeHandler{auth, bucket})
	r.Handle(pathCancelMsg, CancelHandler{auth, bucket})
	r.Handle(pathUpdateMemoMsg, UpdateMemoHandler{auth, bucket})
}

// loadEscrow returns the escrow for the given id, or ErrNotFound.
func loadEscrow(bucket Bucket, db custody.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var esc Escrow
	if err := bucket.One(db, id, &esc); err != nil {
		return nil, errors.Wrapf(err, "escrow %x", id)
	}
	return &esc, nil
}

func transitionTags(action string, id []byte, extra ...common.KVPair) []common.KVPair {
	tags := []common.KVPair{
		custody.Pair("action", action),
		custody.Pair("escrow", fmt.Sprintf("%x", id)),
	}
	return append(tags, extra...)
}

// CreateHandler starts new escrow instances. The main signer of the
// transaction becomes the owner.
type CreateHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ custody.Handler = CreateHandler{}

// Check verifies the message without side effects.
func (h CreateHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return custody.NewCheck(createCost, ""), nil
}

// Deliver assigns a fresh id and persists the instance in the Created
// phase. The id is returned as result data.
func (h CreateHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	id := escrowSeq.NextVal(db)
	escrow := NewEscrow(id, owner, msg.Depositor, msg.Beneficiary, msg.Arbiter, msg.Memo)
	if err := h.bucket.Put(db, id, escrow); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow created",
		"id", fmt.Sprintf("%x", id),
		"depositor", msg.Depositor,
		"beneficiary", msg.Beneficiary,
	)
	return &custody.DeliverResult{
		Data: id,
		Tags: transitionTags("escrow/create", id),
	}, nil
}

func (h CreateHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CreateMsg, custody.Address, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if !conf.AllowSelfEscrow && msg.Depositor.Equals(msg.Beneficiary) {
		return nil, nil, errors.Wrap(ErrInvalidParties, "depositor is the beneficiary")
	}
	if len(msg.Memo) > int(conf.MaxMemoSize) {
		return nil, nil, errors.Wrapf(errors.ErrInput, "memo above %d bytes", conf.MaxMemoSize)
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, signer.Address(), nil
}

// FundHandler accepts the deposit. Only the depositor may fund, only in
// the Created phase, and the declared amount must equal the value the
// host attached to the call.
type FundHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	control Controller
}

var _ custody.Handler = FundHandler{}

// Check verifies the transition without side effects.
func (h FundHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return custody.NewCheck(fundCost, ""), nil
}

// Deliver moves the attached value into the escrow account and commits
// the Funded phase.
func (h FundHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Deposit(db, escrow, msg.EscrowID, escrow.Depositor, msg.Amount); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow funded",
		"id", fmt.Sprintf("%x", msg.EscrowID),
		"amount", msg.Amount,
	)
	return &custody.DeliverResult{
		Data: msg.EscrowID,
		Tags: transitionTags("escrow/fund", msg.EscrowID,
			custody.Pair("amount", msg.Amount.String())),
	}, nil
}

func (h FundHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*FundMsg, *Escrow, error) {
	var msg FundMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	escrow, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if escrow.Phase != PhaseCreated {
		return nil, nil, errors.Wrapf(ErrInvalidPhase, "cannot fund %s escrow", escrow.Phase)
	}
	if !h.auth.HasAddress(ctx, escrow.Depositor) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the depositor can fund")
	}
	attached, err := custody.MustAttachedValue(ctx)
	if err != nil {
		return nil, nil, err
	}
	if attached != msg.Amount {
		return nil, nil, errors.Wrapf(errors.ErrAmount,
			"attached value %s does not match declared amount %s", attached, msg.Amount)
	}
	return &msg, escrow, nil
}

// ReleaseHandler pays the held balance out to the beneficiary. The
// depositor releases a funded escrow; only the arbiter resolves a
// disputed one.
type ReleaseHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	control Controller
}

var _ custody.Handler = ReleaseHandler{}

// Check verifies the transition without side effects.
func (h ReleaseHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return custody.NewCheck(payoutCost, ""), nil
}

// Deliver transfers the balance to the beneficiary and commits the
// Released phase.
func (h ReleaseHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount := escrow.Balance
	if err := h.control.PayOut(db, escrow, msg.EscrowID, escrow.Beneficiary, PhaseReleased); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow released",
		"id", fmt.Sprintf("%x", msg.EscrowID),
		"amount", amount,
	)
	return &custody.DeliverResult{
		Data: msg.EscrowID,
		Tags: transitionTags("escrow/release", msg.EscrowID,
			custody.Pair("amount", amount.String())),
	}, nil
}

func (h ReleaseHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ReleaseMsg, *Escrow, error) {
	var msg ReleaseMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	escrow, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	switch escrow.Phase {
	case PhaseFunded:
		if !h.auth.HasAddress(ctx, escrow.Depositor) {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the depositor can release")
		}
	case PhaseDisputed:
		if !h.auth.HasAddress(ctx, escrow.Arbiter) {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the arbiter can resolve a dispute")
		}
	default:
		return nil, nil, errors.Wrapf(ErrInvalidPhase, "cannot release %s escrow", escrow.Phase)
	}
	return &msg, escrow, nil
}

// RefundHandler returns the held balance to the depositor. The
// beneficiary refunds a funded escrow voluntarily; only the arbiter
// resolves a disputed one.
type RefundHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	control Controller
}

var _ custody.Handler = RefundHandler{}

// Check verifies the transition without side effects.
func (h RefundHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return custody.NewCheck(payoutCost, ""), nil
}

// Deliver transfers the balance back to the depositor and commits the
// Refunded phase.
func (h RefundHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount := escrow.Balance
	if err := h.control.PayOut(db, escrow, msg.EscrowID, escrow.Depositor, PhaseRefunded); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow refunded",
		"id", fmt.Sprintf("%x", msg.EscrowID),
		"amount", amount,
	)
	return &custody.DeliverResult{
		Data: msg.EscrowID,
		Tags: transitionTags("escrow/refund", msg.EscrowID,
			custody.Pair("amount", amount.String())),
	}, nil
}

func (h RefundHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*RefundMsg, *Escrow, error) {
	var msg RefundMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	escrow, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	switch escrow.Phase {
	case PhaseFunded:
		if !h.auth.HasAddress(ctx, escrow.Beneficiary) {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the beneficiary can refund")
		}
	case PhaseDisputed:
		if !h.auth.HasAddress(ctx, escrow.Arbiter) {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the arbiter can resolve a dispute")
		}
	default:
		return nil, nil, errors.Wrapf(ErrInvalidPhase, "cannot refund %s escrow", escrow.Phase)
	}
	return &msg, escrow, nil
}

// DisputeHandler escalates a funded escrow to the arbiter. Either the
// depositor or the beneficiary may raise the dispute.
type DisputeHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ custody.Handler = DisputeHandler{}

// Check verifies the transition without side effects.
func (h DisputeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return custody.NewCheck(disputeCost, ""), nil
}

// Deliver commits the Disputed phase. No value moves.
func (h DisputeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	escrow.Phase = PhaseDisputed
	if err := h.bucket.Put(db, msg.EscrowID, escrow); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow disputed",
		"id", fmt.Sprintf("%x", msg.EscrowID),
	)
	return &custody.DeliverResult{
		Data: msg.EscrowID,
		Tags: transitionTags("escrow/dispute", msg.EscrowID),
	}, nil
}

func (h DisputeHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*DisputeMsg, *Escrow, error) {
	var msg DisputeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	escrow, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if escrow.Phase != PhaseFunded {
		return nil, nil, errors.Wrapf(ErrInvalidPhase, "cannot dispute %s escrow", escrow.Phase)
	}
	if escrow.Arbiter == nil {
		return nil, nil, errors.Wrap(ErrNoArbiter, "dispute requires an arbiter")
	}
	if !x.AnyAddress(ctx, h.auth, escrow.Depositor, escrow.Beneficiary) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only a party can dispute")
	}
	return &msg, escrow, nil
}

// CancelHandler aborts an escrow before any funding arrived. The owner
// or the depositor may cancel. The instance moves straight to Refunded
// with nothing to pay out.
type CancelHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ custody.Handler = CancelHandler{}

// Check verifies the transition without side effects.
func (h CancelHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return custody.NewCheck(payoutCost, ""), nil
}

// Deliver commits the terminal phase for the never-funded instance.
func (h CancelHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	escrow.Phase = PhaseRefunded
	if err := h.bucket.Put(db, msg.EscrowID, escrow); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow cancelled",
		"id", fmt.Sprintf("%x", msg.EscrowID),
	)
	return &custody.DeliverResult{
		Data: msg.EscrowID,
		Tags: transitionTags("escrow/cancel", msg.EscrowID),
	}, nil
}

func (h CancelHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	escrow, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if escrow.Phase != PhaseCreated {
		return nil, nil, errors.Wrapf(ErrInvalidPhase, "cannot cancel %s escrow", escrow.Phase)
	}
	if !x.AnyAddress(ctx, h.auth, escrow.Owner, escrow.Depositor) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the owner or depositor can cancel")
	}
	return &msg, escrow, nil
}

// UpdateMemoHandler replaces the memo on a non-terminal escrow. Only
// the depositor may update it.
type UpdateMemoHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

var _ custody.Handler = UpdateMemoHandler{}

// Check verifies the transition without side effects.
func (h UpdateMemoHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return custody.NewCheck(updateCost, ""), nil
}

// Deliver persists the new memo.
func (h UpdateMemoHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	escrow.Memo = msg.Memo
	if err := h.bucket.Put(db, msg.EscrowID, escrow); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{
		Data: msg.EscrowID,
		Tags: transitionTags("escrow/memo", msg.EscrowID),
	}, nil
}

func (h UpdateMemoHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*UpdateMemoMsg, *Escrow, error) {
	var msg UpdateMemoMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if len(msg.Memo) > int(conf.MaxMemoSize) {
		return nil, nil, errors.Wrapf(errors.ErrInput, "memo above %d bytes", conf.MaxMemoSize)
	}
	escrow, err := loadEscrow(h.bucket, db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if escrow.Phase.Terminal() {
		return nil, nil, errors.Wrapf(ErrInvalidPhase, "cannot update %s escrow", escrow.Phase)
	}
	if !h.auth.HasAddress(ctx, escrow.Depositor) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the depositor can update the memo")
	}
	return &msg, escrow, nil
}
