// goat_locking.go implements the two locking-module inner transactions,
// both submitted by the locking executor against the locking contract.
package types

import "github.com/holiman/uint256"

// Payload sizes, selector included.
const (
	CompleteUnlockTxSize   = 132
	DistributeRewardTxSize = 132
)

// Method selectors.
var (
	CompleteUnlockTxSelector   = [4]byte{0x00, 0xab, 0xa5, 0x1a}
	DistributeRewardTxSelector = [4]byte{0xbd, 0x9f, 0xad, 0xb5}
)

// CompleteUnlockTx finishes unlock request Id, releasing Amount of Token to
// Recipient. Only native-token unlocks move value out of the chain; other
// tokens settle inside the locking contract.
type CompleteUnlockTx struct {
	Id        uint64
	Recipient Address
	Token     Address
	Amount    uint256.Int
}

// DecodeCompleteUnlockTx decodes payload layout
// [selector, id, recipient, token, amount].
func DecodeCompleteUnlockTx(payload []byte) (CompleteUnlockTx, error) {
	r, err := newGoatReader(payload, CompleteUnlockTxSelector, CompleteUnlockTxSize)
	if err != nil {
		return CompleteUnlockTx{}, err
	}
	var tx CompleteUnlockTx
	if tx.Id, err = r.uint64Tail(); err != nil {
		return CompleteUnlockTx{}, err
	}
	if tx.Recipient, err = r.address(); err != nil {
		return CompleteUnlockTx{}, err
	}
	if tx.Token, err = r.address(); err != nil {
		return CompleteUnlockTx{}, err
	}
	if tx.Amount, err = r.uint256Word(); err != nil {
		return CompleteUnlockTx{}, err
	}
	return tx, nil
}

func (CompleteUnlockTx) isGoatInner() {}

func (CompleteUnlockTx) Sender() Address    { return GoatLockingExecutor }
func (CompleteUnlockTx) Contract() Address  { return GoatLockingContract }
func (CompleteUnlockTx) Deposit() *GoatMint { return nil }

// Withdraw returns the released value when the unlocked token is the native
// token, with no tax. Non-native unlocks return nil.
func (tx CompleteUnlockTx) Withdraw() *GoatMint {
	if tx.Token != GoatNativeToken {
		return nil
	}
	return &GoatMint{Address: tx.Recipient, Amount: tx.Amount}
}

// DistributeRewardTx pays out locking reward Id: Goat tokens accounted
// inside the locking contract plus a native gas reward to Recipient.
type DistributeRewardTx struct {
	Id        uint64
	Recipient Address
	Goat      uint256.Int
	GasReward uint256.Int
}

// DecodeDistributeRewardTx decodes payload layout
// [selector, id, recipient, goat, gasReward].
func DecodeDistributeRewardTx(payload []byte) (DistributeRewardTx, error) {
	r, err := newGoatReader(payload, DistributeRewardTxSelector, DistributeRewardTxSize)
	if err != nil {
		return DistributeRewardTx{}, err
	}
	var tx DistributeRewardTx
	if tx.Id, err = r.uint64Tail(); err != nil {
		return DistributeRewardTx{}, err
	}
	if tx.Recipient, err = r.address(); err != nil {
		return DistributeRewardTx{}, err
	}
	if tx.Goat, err = r.uint256Word(); err != nil {
		return DistributeRewardTx{}, err
	}
	if tx.GasReward, err = r.uint256Word(); err != nil {
		return DistributeRewardTx{}, err
	}
	return tx, nil
}

func (DistributeRewardTx) isGoatInner() {}

func (DistributeRewardTx) Sender() Address    { return GoatLockingExecutor }
func (DistributeRewardTx) Contract() Address  { return GoatLockingContract }
func (DistributeRewardTx) Deposit() *GoatMint { return nil }

// Withdraw returns the native gas reward leaving the chain, with no tax.
func (tx DistributeRewardTx) Withdraw() *GoatMint {
	return &GoatMint{Address: tx.Recipient, Amount: tx.GasReward}
}
