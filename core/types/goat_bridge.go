// goat_bridge.go implements the four bridge-module inner transactions.
// All four are submitted by the relayer executor. NewBtcBlockTx mirrors a
// Bitcoin block hash into the Bitcoin contract; the other three drive the
// deposit lifecycle against the bridge contract: DepositTx credits a
// confirmed deposit, Cancel2Tx voids a pending withdrawal, and PaidTx
// records the Bitcoin transaction that settled one.
package types

import "github.com/holiman/uint256"

// Payload sizes, selector included.
const (
	NewBtcBlockTxSize = 36
	Cancel2TxSize     = 36
	PaidTxSize        = 132
	DepositTxSize     = 164
)

// Method selectors, the first 4 bytes of each payload.
var (
	NewBtcBlockTxSelector = [4]byte{0x94, 0xf4, 0x90, 0xbd}
	Cancel2TxSelector     = [4]byte{0xc1, 0x9d, 0xd3, 0x20}
	PaidTxSelector        = [4]byte{0xb6, 0x70, 0xab, 0x5e}
	DepositTxSelector     = [4]byte{0x90, 0x41, 0x83, 0xcb}
)

// NewBtcBlockTx announces a new Bitcoin block hash to the Bitcoin contract.
type NewBtcBlockTx struct {
	Hash Hash
}

// DecodeNewBtcBlockTx decodes payload layout [selector, hash].
func DecodeNewBtcBlockTx(payload []byte) (NewBtcBlockTx, error) {
	r, err := newGoatReader(payload, NewBtcBlockTxSelector, NewBtcBlockTxSize)
	if err != nil {
		return NewBtcBlockTx{}, err
	}
	var tx NewBtcBlockTx
	if tx.Hash, err = r.hash(); err != nil {
		return NewBtcBlockTx{}, err
	}
	return tx, nil
}

func (NewBtcBlockTx) isGoatInner() {}

func (NewBtcBlockTx) Sender() Address     { return GoatRelayerExecutor }
func (NewBtcBlockTx) Contract() Address   { return GoatBitcoinContract }
func (NewBtcBlockTx) Deposit() *GoatMint  { return nil }
func (NewBtcBlockTx) Withdraw() *GoatMint { return nil }

// Cancel2Tx voids the pending withdrawal identified by Id.
type Cancel2Tx struct {
	Id uint256.Int
}

// DecodeCancel2Tx decodes payload layout [selector, id].
func DecodeCancel2Tx(payload []byte) (Cancel2Tx, error) {
	r, err := newGoatReader(payload, Cancel2TxSelector, Cancel2TxSize)
	if err != nil {
		return Cancel2Tx{}, err
	}
	var tx Cancel2Tx
	if tx.Id, err = r.uint256Word(); err != nil {
		return Cancel2Tx{}, err
	}
	return tx, nil
}

func (Cancel2Tx) isGoatInner() {}

func (Cancel2Tx) Sender() Address     { return GoatRelayerExecutor }
func (Cancel2Tx) Contract() Address   { return GoatBridgeContract }
func (Cancel2Tx) Deposit() *GoatMint  { return nil }
func (Cancel2Tx) Withdraw() *GoatMint { return nil }

// PaidTx records the Bitcoin transaction output that settled withdrawal Id.
// TxID and TxOut locate the paying output on the Bitcoin chain.
type PaidTx struct {
	Id     uint256.Int
	TxID   Hash
	TxOut  uint32
	Amount uint256.Int
}

// DecodePaidTx decodes payload layout [selector, id, txid, txout, amount].
func DecodePaidTx(payload []byte) (PaidTx, error) {
	r, err := newGoatReader(payload, PaidTxSelector, PaidTxSize)
	if err != nil {
		return PaidTx{}, err
	}
	var tx PaidTx
	if tx.Id, err = r.uint256Word(); err != nil {
		return PaidTx{}, err
	}
	if tx.TxID, err = r.hash(); err != nil {
		return PaidTx{}, err
	}
	if tx.TxOut, err = r.uint32Tail(); err != nil {
		return PaidTx{}, err
	}
	if tx.Amount, err = r.uint256Word(); err != nil {
		return PaidTx{}, err
	}
	return tx, nil
}

func (PaidTx) isGoatInner() {}

func (PaidTx) Sender() Address     { return GoatRelayerExecutor }
func (PaidTx) Contract() Address   { return GoatBridgeContract }
func (PaidTx) Deposit() *GoatMint  { return nil }
func (PaidTx) Withdraw() *GoatMint { return nil }

// DepositTx credits a confirmed Bitcoin deposit to Target. TxID and TxOut
// locate the deposited output; Tax is the protocol's cut of Amount.
type DepositTx struct {
	TxID   Hash
	TxOut  uint32
	Target Address
	Amount uint256.Int
	Tax    uint256.Int
}

// DecodeDepositTx decodes payload layout
// [selector, txid, txout, target, amount, tax].
func DecodeDepositTx(payload []byte) (DepositTx, error) {
	r, err := newGoatReader(payload, DepositTxSelector, DepositTxSize)
	if err != nil {
		return DepositTx{}, err
	}
	var tx DepositTx
	if tx.TxID, err = r.hash(); err != nil {
		return DepositTx{}, err
	}
	if tx.TxOut, err = r.uint32Tail(); err != nil {
		return DepositTx{}, err
	}
	if tx.Target, err = r.address(); err != nil {
		return DepositTx{}, err
	}
	if tx.Amount, err = r.uint256Word(); err != nil {
		return DepositTx{}, err
	}
	if tx.Tax, err = r.uint256Word(); err != nil {
		return DepositTx{}, err
	}
	return tx, nil
}

func (DepositTx) isGoatInner() {}

func (DepositTx) Sender() Address   { return GoatRelayerExecutor }
func (DepositTx) Contract() Address { return GoatBridgeContract }

// Deposit returns the bridged value entering the chain.
func (tx DepositTx) Deposit() *GoatMint {
	return &GoatMint{Address: tx.Target, Amount: tx.Amount, Tax: tx.Tax}
}

func (DepositTx) Withdraw() *GoatMint { return nil }
