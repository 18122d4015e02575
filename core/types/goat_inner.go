// goat_inner.go defines the interpreted payload of a Goat transaction.
// A Goat payload is routed by its (module, action) pair to one of six
// fixed-layout inner transactions: four Bitcoin-bridge operations (see
// goat_bridge.go) and two token-locking operations (see goat_locking.go).
// Every inner transaction is submitted by a protocol-fixed executor
// address and targets a protocol-fixed contract; its balance effect, if
// any, is exposed as a GoatMint.
package types

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// GoatModule identifies the functional area a Goat transaction belongs to.
type GoatModule byte

// GoatAction identifies an operation within a module. Action values are
// scoped to their module; the same byte means different operations under
// bridge and locking.
type GoatAction byte

const (
	GoatModuleBridge  GoatModule = 1
	GoatModuleLocking GoatModule = 2
)

// Bridge module actions.
const (
	BridgeActionDeposit     GoatAction = 1
	BridgeActionCancel2     GoatAction = 2
	BridgeActionPaid        GoatAction = 3
	BridgeActionNewBtcBlock GoatAction = 4
)

// Locking module actions.
const (
	LockingActionCompleteUnlock   GoatAction = 1
	LockingActionDistributeReward GoatAction = 2
)

// Chain ids of the Goat networks. Neither appears in the wire encoding of a
// Goat transaction; the envelope's chain id is injected from configuration.
const (
	GoatChainID        uint64 = 2345
	GoatTestnetChainID uint64 = 48816
)

// Protocol-fixed addresses. The executors are the logical senders of Goat
// transactions, standing in for off-chain infrastructure rather than a
// signing key; the contracts are the fixed destinations per module.
var (
	GoatRelayerExecutor = HexToAddress("0xbc1000000000000000000000000000000000000a")
	GoatLockingExecutor = HexToAddress("0xbc1000000000000000000000000000000000000b")

	GoatBitcoinContract = HexToAddress("0xbc10000000000000000000000000000000000001")
	GoatBridgeContract  = HexToAddress("0xbc10000000000000000000000000000000000002")
	GoatLockingContract = HexToAddress("0xbc10000000000000000000000000000000000003")

	// GoatNativeToken is the placeholder address for the chain's native
	// token in locking payloads. Unlocks of any other token settle inside
	// the locking contract and produce no mint.
	GoatNativeToken = Address{}
)

func (m GoatModule) String() string {
	switch m {
	case GoatModuleBridge:
		return "bridge"
	case GoatModuleLocking:
		return "locking"
	default:
		return fmt.Sprintf("module(%d)", byte(m))
	}
}

// ActionName returns the human-readable name of an action within this
// module, or a numeric placeholder for unknown routes.
func (m GoatModule) ActionName(a GoatAction) string {
	switch m {
	case GoatModuleBridge:
		switch a {
		case BridgeActionDeposit:
			return "deposit"
		case BridgeActionCancel2:
			return "cancel2"
		case BridgeActionPaid:
			return "paid"
		case BridgeActionNewBtcBlock:
			return "newBtcBlock"
		}
	case GoatModuleLocking:
		switch a {
		case LockingActionCompleteUnlock:
			return "completeUnlock"
		case LockingActionDistributeReward:
			return "distributeReward"
		}
	}
	return fmt.Sprintf("action(%d)", byte(a))
}

// Routing errors. DecodeGoatInner returns a *GoatRouteError; the sentinels
// distinguish "module itself unknown" from "action unknown within a known
// module" for errors.Is matching.
var (
	ErrGoatUnknownModule = errors.New("unknown goat module")
	ErrGoatUnknownAction = errors.New("unknown goat action")
)

// GoatRouteError reports a (module, action) pair with no routing entry.
type GoatRouteError struct {
	Module      GoatModule
	Action      GoatAction
	KnownModule bool
}

func (e *GoatRouteError) Error() string {
	if e.KnownModule {
		return fmt.Sprintf("unknown action %d for goat %s module", byte(e.Action), e.Module)
	}
	return fmt.Sprintf("unknown goat module %d", byte(e.Module))
}

func (e *GoatRouteError) Is(target error) bool {
	if e.KnownModule {
		return target == ErrGoatUnknownAction
	}
	return target == ErrGoatUnknownModule
}

// GoatMint is the balance effect of an inner Goat transaction: Amount is
// credited to (deposit) or released for (withdraw) Address, and Tax is
// retained for separate handling by the balance-mutation layer.
type GoatMint struct {
	Address Address
	Amount  uint256.Int
	Tax     uint256.Int
}

// GoatInner is the interpreted payload of a Goat transaction, one of
// exactly six variants: NewBtcBlockTx, Cancel2Tx, PaidTx, DepositTx,
// CompleteUnlockTx, DistributeRewardTx. The variant set is closed; the
// unexported marker keeps outside packages from adding to it. Inner values
// are immutable once decoded and may be shared freely.
type GoatInner interface {
	// Sender returns the protocol executor permitted to submit this kind.
	Sender() Address

	// Contract returns the fixed destination contract of this kind.
	Contract() Address

	// Deposit returns the value entering the chain, or nil.
	Deposit() *GoatMint

	// Withdraw returns the value leaving the chain, or nil.
	Withdraw() *GoatMint

	isGoatInner()
}

// DecodeGoatInner routes a (module, action) pair to the matching variant
// decoder. It is a pure function of its arguments: decoding the same
// payload twice yields equal values, and no state is carried between
// calls. Unknown routes and malformed payloads fail with typed errors.
func DecodeGoatInner(module GoatModule, action GoatAction, payload []byte) (GoatInner, error) {
	switch module {
	case GoatModuleBridge:
		return decodeBridgeInner(action, payload)
	case GoatModuleLocking:
		return decodeLockingInner(action, payload)
	default:
		return nil, &GoatRouteError{Module: module, Action: action}
	}
}

func decodeBridgeInner(action GoatAction, payload []byte) (GoatInner, error) {
	switch action {
	case BridgeActionDeposit:
		tx, err := DecodeDepositTx(payload)
		if err != nil {
			return nil, err
		}
		return tx, nil
	case BridgeActionCancel2:
		tx, err := DecodeCancel2Tx(payload)
		if err != nil {
			return nil, err
		}
		return tx, nil
	case BridgeActionPaid:
		tx, err := DecodePaidTx(payload)
		if err != nil {
			return nil, err
		}
		return tx, nil
	case BridgeActionNewBtcBlock:
		tx, err := DecodeNewBtcBlockTx(payload)
		if err != nil {
			return nil, err
		}
		return tx, nil
	default:
		return nil, &GoatRouteError{Module: GoatModuleBridge, Action: action, KnownModule: true}
	}
}

func decodeLockingInner(action GoatAction, payload []byte) (GoatInner, error) {
	switch action {
	case LockingActionCompleteUnlock:
		tx, err := DecodeCompleteUnlockTx(payload)
		if err != nil {
			return nil, err
		}
		return tx, nil
	case LockingActionDistributeReward:
		tx, err := DecodeDistributeRewardTx(payload)
		if err != nil {
			return nil, err
		}
		return tx, nil
	default:
		return nil, &GoatRouteError{Module: GoatModuleLocking, Action: action, KnownModule: true}
	}
}
