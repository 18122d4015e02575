package types

import (
	"fmt"
	"math/big"

	"github.com/goatnetwork/goat-consensus/rlp"
	"golang.org/x/crypto/sha3"
)

// GoatTxType is the envelope type byte of Goat transactions.
const GoatTxType byte = 0x60

// GoatTx is the outer envelope of a Goat transaction (type 0x60): a
// module/action route, a relayer sequence nonce, and the opaque payload the
// route interprets. Goat transactions carry no fee fields, no value, no
// access list and no signature; their sender is the protocol executor of
// the decoded inner transaction.
type GoatTx struct {
	Module GoatModule
	Action GoatAction
	Nonce  uint64
	Data   []byte

	// ChainID is a protocol constant injected from configuration, never
	// part of the wire encoding.
	ChainID uint64

	// inner is the decoded payload, populated eagerly by every
	// construction path in this package.
	inner GoatInner
}

// NewGoatTx builds a Goat transaction from its envelope fields and decodes
// the payload immediately. The payload is copied.
func NewGoatTx(module GoatModule, action GoatAction, nonce uint64, payload []byte, chainID uint64) (*GoatTx, error) {
	inner, err := DecodeGoatInner(module, action, payload)
	if err != nil {
		return nil, err
	}
	return &GoatTx{
		Module:  module,
		Action:  action,
		Nonce:   nonce,
		Data:    copyBytes(payload),
		ChainID: chainID,
		inner:   inner,
	}, nil
}

// DecodeInner re-derives the inner transaction from the stored module,
// action and payload. Decoding is a pure function of those fields, so
// re-running it after a successful decode yields an equal value; paths
// that rebuild a GoatTx from serialized fields call this to restore the
// inner value.
func (tx *GoatTx) DecodeInner() error {
	inner, err := DecodeGoatInner(tx.Module, tx.Action, tx.Data)
	if err != nil {
		return err
	}
	tx.inner = inner
	return nil
}

// Inner returns the decoded inner transaction, or nil if no decode has
// succeeded.
func (tx *GoatTx) Inner() GoatInner { return tx.inner }

// SetChainID stamps the configured network chain id onto the transaction.
// The chain id is not part of the wire encoding, so restamping does not
// invalidate the hash.
func (tx *GoatTx) SetChainID(chainID uint64) { tx.ChainID = chainID }

// Sender returns the protocol executor that submits this transaction kind.
// Goat senders are fixed per route, not recovered from a signature.
func (tx *GoatTx) Sender() Address {
	if tx.inner == nil {
		return Address{}
	}
	return tx.inner.Sender()
}

// Contract returns the fixed destination contract of the inner transaction.
func (tx *GoatTx) Contract() Address {
	if tx.inner == nil {
		return Address{}
	}
	return tx.inner.Contract()
}

// Deposit returns the value entering the chain, or nil.
func (tx *GoatTx) Deposit() *GoatMint {
	if tx.inner == nil {
		return nil
	}
	return tx.inner.Deposit()
}

// Withdraw returns the value leaving the chain, or nil.
func (tx *GoatTx) Withdraw() *GoatMint {
	if tx.inner == nil {
		return nil
	}
	return tx.inner.Withdraw()
}

// TxData interface implementation. All fee fields are fixed to zero: Goat
// transactions bypass the fee market, and value transfer is expressed only
// through Deposit/Withdraw.
func (tx *GoatTx) txType() byte           { return GoatTxType }
func (tx *GoatTx) chainID() *big.Int      { return new(big.Int).SetUint64(tx.ChainID) }
func (tx *GoatTx) accessList() AccessList { return nil }
func (tx *GoatTx) data() []byte           { return tx.Data }
func (tx *GoatTx) gas() uint64            { return 0 }
func (tx *GoatTx) gasPrice() *big.Int     { return new(big.Int) }
func (tx *GoatTx) gasTipCap() *big.Int    { return new(big.Int) }
func (tx *GoatTx) gasFeeCap() *big.Int    { return new(big.Int) }
func (tx *GoatTx) value() *big.Int        { return new(big.Int) }
func (tx *GoatTx) nonce() uint64          { return tx.Nonce }

func (tx *GoatTx) to() *Address {
	addr := tx.Contract()
	return &addr
}

func (tx *GoatTx) copy() TxData {
	return &GoatTx{
		Module:  tx.Module,
		Action:  tx.Action,
		Nonce:   tx.Nonce,
		Data:    copyBytes(tx.Data),
		ChainID: tx.ChainID,
		// Inner values are immutable once decoded; sharing is safe.
		inner: tx.inner,
	}
}

// --- RLP encoding/decoding ---

// goatTxRLP is the RLP encoding layout for GoatTx.
// Fields: [module, action, nonce, data]
type goatTxRLP struct {
	Module uint8
	Action uint8
	Nonce  uint64
	Data   []byte
}

// EncodeGoatTx encodes a GoatTx as a typed transaction envelope:
// 0x60 || RLP([module, action, nonce, data]). The chain id and the decoded
// inner value are not part of the wire form. The four fields have fixed
// shapes, so this uses the incremental encoders instead of reflection.
func EncodeGoatTx(tx *GoatTx) ([]byte, error) {
	var payload []byte
	payload = rlp.AppendUint64(payload, uint64(tx.Module))
	payload = rlp.AppendUint64(payload, uint64(tx.Action))
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = rlp.AppendBytes(payload, tx.Data)

	result := make([]byte, 0, 1+rlp.EstimateListSize(len(payload)))
	result = append(result, GoatTxType)
	result = rlp.AppendListHeader(result, len(payload))
	result = append(result, payload...)
	return result, nil
}

// DecodeGoatTx decodes the RLP payload (without the type byte) into a
// GoatTx. The inner payload is decoded eagerly: a payload that does not
// match its (module, action) route is rejected here, not at first use.
// The chain id defaults to the mainnet constant; callers on another Goat
// network overwrite it from their configuration.
func DecodeGoatTx(data []byte) (*GoatTx, error) {
	var dec goatTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, fmt.Errorf("decode goat tx: %w", err)
	}
	tx := &GoatTx{
		Module:  GoatModule(dec.Module),
		Action:  GoatAction(dec.Action),
		Nonce:   dec.Nonce,
		Data:    dec.Data,
		ChainID: GoatChainID,
	}
	if err := tx.DecodeInner(); err != nil {
		return nil, fmt.Errorf("decode goat tx: %w", err)
	}
	return tx, nil
}

// decodeGoatTxWrapped decodes a GoatTx from RLP payload and wraps it in a
// Transaction.
func decodeGoatTxWrapped(data []byte) (*Transaction, error) {
	inner, err := DecodeGoatTx(data)
	if err != nil {
		return nil, err
	}
	return NewTransaction(inner), nil
}

// --- Signature hash ---

// ComputeGoatSigHash computes the canonical signature hash of a Goat
// transaction: keccak256(0x60 || rlp([module, action, nonce, data])).
// Goat transactions have no signature fields to strip, so this equals the
// transaction hash.
func ComputeGoatSigHash(tx *GoatTx) Hash {
	enc, err := EncodeGoatTx(tx)
	if err != nil {
		return Hash{}
	}
	d := sha3.NewLegacyKeccak256()
	d.Write(enc)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

// --- Validation ---

// ValidateGoatTx performs static validity checks on a GoatTx: the chain id
// must name a Goat network and the payload must decode under its route.
// An undecoded inner value is decoded here rather than rejected.
func ValidateGoatTx(tx *GoatTx) error {
	if tx.ChainID != GoatChainID && tx.ChainID != GoatTestnetChainID {
		return fmt.Errorf("goat tx: unknown chain id %d", tx.ChainID)
	}
	if tx.inner == nil {
		if err := tx.DecodeInner(); err != nil {
			return fmt.Errorf("goat tx: %w", err)
		}
	}
	return nil
}

// --- Transaction wrapper accessors ---

// IsGoat reports whether the transaction is a Goat transaction.
func (tx *Transaction) IsGoat() bool {
	_, ok := tx.inner.(*GoatTx)
	return ok
}

// GoatModule returns the module byte of a Goat transaction, or zero for
// all other transaction types.
func (tx *Transaction) GoatModule() GoatModule {
	if goat, ok := tx.inner.(*GoatTx); ok {
		return goat.Module
	}
	return 0
}

// GoatAction returns the action byte of a Goat transaction, or zero for
// all other transaction types.
func (tx *Transaction) GoatAction() GoatAction {
	if goat, ok := tx.inner.(*GoatTx); ok {
		return goat.Action
	}
	return 0
}

// GoatInnerTx returns the decoded inner transaction of a Goat transaction.
// Returns nil for all other transaction types.
func (tx *Transaction) GoatInnerTx() GoatInner {
	if goat, ok := tx.inner.(*GoatTx); ok {
		return goat.Inner()
	}
	return nil
}

// GoatDeposit returns the deposit effect of a Goat transaction, or nil.
func (tx *Transaction) GoatDeposit() *GoatMint {
	if goat, ok := tx.inner.(*GoatTx); ok {
		return goat.Deposit()
	}
	return nil
}

// GoatWithdraw returns the withdrawal effect of a Goat transaction, or nil.
func (tx *Transaction) GoatWithdraw() *GoatMint {
	if goat, ok := tx.inner.(*GoatTx); ok {
		return goat.Withdraw()
	}
	return nil
}

// SetGoatChainID stamps the configured chain id onto a Goat transaction.
// No-op for other transaction types.
func (tx *Transaction) SetGoatChainID(chainID uint64) {
	if goat, ok := tx.inner.(*GoatTx); ok {
		goat.ChainID = chainID
	}
}
