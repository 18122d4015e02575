package types

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

// newTestGoatTx builds a valid deposit-route Goat transaction for the
// envelope tests.
func newTestGoatTx(t *testing.T, nonce uint64) *GoatTx {
	t.Helper()
	payload := mustGoatPayload(t,
		"904183cb15bb90fa63b9a92e31d31f8d8d30bf8da9d9a21314c65dd517f27740ae676d6e"+
			"000000000000000000000000000000000000000000000000000000002a71a778"+
			"0000000000000000000000005e4e4d79f08120352f04d638adec7d3892b28045"+
			"00000000000000000000000000000000000000000000000000000000157f7f97"+
			"0000000000000000000000000000000000000000000000000000000000000064")
	tx, err := NewGoatTx(GoatModuleBridge, BridgeActionDeposit, nonce, payload, GoatChainID)
	if err != nil {
		t.Fatalf("NewGoatTx: %v", err)
	}
	return tx
}

func TestGoatTxRoundTrip(t *testing.T) {
	inner := newTestGoatTx(t, 42)
	tx := NewTransaction(inner)

	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	if enc[0] != GoatTxType {
		t.Fatalf("expected type byte 0x%02x, got 0x%02x", GoatTxType, enc[0])
	}

	decoded, err := DecodeTxRLP(enc)
	if err != nil {
		t.Fatalf("DecodeTxRLP: %v", err)
	}
	if decoded.Type() != GoatTxType {
		t.Fatalf("decoded type: expected %d, got %d", GoatTxType, decoded.Type())
	}

	goat := decoded.inner.(*GoatTx)
	if goat.Module != GoatModuleBridge {
		t.Fatalf("module: got %d", goat.Module)
	}
	if goat.Action != BridgeActionDeposit {
		t.Fatalf("action: got %d", goat.Action)
	}
	if goat.Nonce != 42 {
		t.Fatalf("nonce: got %d", goat.Nonce)
	}
	if !bytes.Equal(goat.Data, inner.Data) {
		t.Fatal("payload mismatch after round trip")
	}
	// Decoding fills the inner value eagerly.
	if goat.Inner() == nil {
		t.Fatal("decoded tx must carry a decoded inner value")
	}
	if _, ok := goat.Inner().(DepositTx); !ok {
		t.Fatalf("inner: got %T", goat.Inner())
	}
	if decoded.Hash() != tx.Hash() {
		t.Fatal("hash mismatch after round trip")
	}
}

func TestGoatTxChainIDNotOnWire(t *testing.T) {
	mainnet := newTestGoatTx(t, 1)
	testnet := newTestGoatTx(t, 1)
	testnet.SetChainID(GoatTestnetChainID)

	encMainnet, err := EncodeGoatTx(mainnet)
	if err != nil {
		t.Fatalf("EncodeGoatTx: %v", err)
	}
	encTestnet, err := EncodeGoatTx(testnet)
	if err != nil {
		t.Fatalf("EncodeGoatTx: %v", err)
	}
	if !bytes.Equal(encMainnet, encTestnet) {
		t.Fatal("chain id must not affect the wire encoding")
	}
	if ComputeGoatSigHash(mainnet) != ComputeGoatSigHash(testnet) {
		t.Fatal("chain id must not affect the hash")
	}

	// A decoded tx defaults to the mainnet chain id.
	decoded, err := DecodeGoatTx(encMainnet[1:])
	if err != nil {
		t.Fatalf("DecodeGoatTx: %v", err)
	}
	if decoded.ChainID != GoatChainID {
		t.Fatalf("decoded chain id: got %d, want %d", decoded.ChainID, GoatChainID)
	}
}

func TestGoatTxEagerDecodeRejectsBadPayload(t *testing.T) {
	inner := newTestGoatTx(t, 3)
	// Truncate the payload after construction, then re-encode: the decode
	// side must reject the envelope outright.
	inner.Data = inner.Data[:DepositTxSize-1]
	enc, err := EncodeGoatTx(inner)
	if err != nil {
		t.Fatalf("EncodeGoatTx: %v", err)
	}
	if _, err := DecodeTxRLP(enc); !errors.Is(err, ErrGoatLength) {
		t.Fatalf("expected ErrGoatLength from decode, got %v", err)
	}
}

func TestNewGoatTxRejectsBadPayload(t *testing.T) {
	if _, err := NewGoatTx(GoatModuleBridge, BridgeActionDeposit, 0, make([]byte, 10), GoatChainID); !errors.Is(err, ErrGoatLength) {
		t.Fatalf("expected ErrGoatLength, got %v", err)
	}
	if _, err := NewGoatTx(GoatModuleBridge, 99, 0, nil, GoatChainID); !errors.Is(err, ErrGoatUnknownAction) {
		t.Fatalf("expected ErrGoatUnknownAction, got %v", err)
	}
	if _, err := NewGoatTx(99, 1, 0, nil, GoatChainID); !errors.Is(err, ErrGoatUnknownModule) {
		t.Fatalf("expected ErrGoatUnknownModule, got %v", err)
	}
}

func TestGoatTxDecodeInnerIdempotent(t *testing.T) {
	tx := newTestGoatTx(t, 0)
	first := tx.Inner()
	if err := tx.DecodeInner(); err != nil {
		t.Fatalf("DecodeInner: %v", err)
	}
	if tx.Inner() != first {
		t.Fatal("re-decoding must yield an equal inner value")
	}
}

func TestGoatTxSigHashEqualsHash(t *testing.T) {
	inner := newTestGoatTx(t, 7)
	tx := NewTransaction(inner)

	// With no signature fields to strip, the signing hash covers the whole
	// encoding and equals the transaction hash.
	sigHash := ComputeGoatSigHash(inner)
	if sigHash.IsZero() {
		t.Fatal("sig hash must not be zero")
	}
	if tx.SigningHash() != sigHash {
		t.Fatalf("SigningHash: got %s, want %s", tx.SigningHash().Hex(), sigHash.Hex())
	}
	if tx.Hash() != sigHash {
		t.Fatalf("Hash: got %s, want %s", tx.Hash().Hex(), sigHash.Hex())
	}
}

func TestGoatTxZeroFees(t *testing.T) {
	inner := newTestGoatTx(t, 5)

	var _ TxData = inner

	if inner.txType() != GoatTxType {
		t.Fatalf("txType: expected 0x%02x, got 0x%02x", GoatTxType, inner.txType())
	}
	if inner.chainID().Uint64() != GoatChainID {
		t.Fatalf("chainID: got %d", inner.chainID().Uint64())
	}
	if inner.nonce() != 5 {
		t.Fatalf("nonce: got %d", inner.nonce())
	}
	if inner.gas() != 0 {
		t.Fatalf("gas: got %d, want 0", inner.gas())
	}
	if inner.gasPrice().Sign() != 0 || inner.gasTipCap().Sign() != 0 || inner.gasFeeCap().Sign() != 0 {
		t.Fatal("fee fields must be zero")
	}
	if inner.value().Sign() != 0 {
		t.Fatal("value must be zero")
	}
	if inner.accessList() != nil {
		t.Fatal("access list must be nil")
	}
	to := inner.to()
	if to == nil {
		t.Fatal("to() must never be nil: goat txs cannot create contracts")
	}
	if *to != GoatBridgeContract {
		t.Fatalf("to: got %s, want bridge contract", to.Hex())
	}
}

func TestGoatTxCopy(t *testing.T) {
	inner := newTestGoatTx(t, 9)
	cpy := inner.copy().(*GoatTx)

	inner.Nonce = 999
	inner.Data[0] = 0x00

	if cpy.Nonce != 9 {
		t.Fatal("copy nonce must be independent")
	}
	if cpy.Data[0] != 0x90 {
		t.Fatal("copy payload must be independent")
	}
	if cpy.ChainID != GoatChainID {
		t.Fatalf("copy chain id: got %d", cpy.ChainID)
	}
	if cpy.Inner() == nil {
		t.Fatal("copy must keep the decoded inner value")
	}
}

func TestGoatTxSenderFixedByRoute(t *testing.T) {
	deposit := newTestGoatTx(t, 0)
	if deposit.Sender() != GoatRelayerExecutor {
		t.Fatalf("deposit sender: got %s", deposit.Sender().Hex())
	}
	if deposit.Contract() != GoatBridgeContract {
		t.Fatalf("deposit contract: got %s", deposit.Contract().Hex())
	}

	reward, err := NewGoatTx(GoatModuleLocking, LockingActionDistributeReward, 0,
		validGoatPayload(DistributeRewardTxSelector, DistributeRewardTxSize), GoatChainID)
	if err != nil {
		t.Fatalf("NewGoatTx: %v", err)
	}
	if reward.Sender() != GoatLockingExecutor {
		t.Fatalf("reward sender: got %s", reward.Sender().Hex())
	}
	if reward.Contract() != GoatLockingContract {
		t.Fatalf("reward contract: got %s", reward.Contract().Hex())
	}
}

func TestValidateGoatTx(t *testing.T) {
	tx := newTestGoatTx(t, 0)
	if err := ValidateGoatTx(tx); err != nil {
		t.Fatalf("mainnet: %v", err)
	}

	tx.SetChainID(GoatTestnetChainID)
	if err := ValidateGoatTx(tx); err != nil {
		t.Fatalf("testnet: %v", err)
	}

	tx.SetChainID(1)
	if err := ValidateGoatTx(tx); err == nil {
		t.Fatal("expected error for unknown chain id")
	}

	// A tx rebuilt from bare fields has no inner value; validation decodes
	// it rather than rejecting.
	bare := &GoatTx{
		Module:  tx.Module,
		Action:  tx.Action,
		Nonce:   tx.Nonce,
		Data:    tx.Data,
		ChainID: GoatChainID,
	}
	if err := ValidateGoatTx(bare); err != nil {
		t.Fatalf("bare fields: %v", err)
	}
	if bare.Inner() == nil {
		t.Fatal("validation must fill the inner value")
	}
}

func TestTransactionGoatAccessors(t *testing.T) {
	inner := newTestGoatTx(t, 11)
	tx := NewTransaction(inner)

	if !tx.IsGoat() {
		t.Fatal("IsGoat: expected true")
	}
	if tx.GoatModule() != GoatModuleBridge {
		t.Fatalf("GoatModule: got %d", tx.GoatModule())
	}
	if tx.GoatAction() != BridgeActionDeposit {
		t.Fatalf("GoatAction: got %d", tx.GoatAction())
	}
	if tx.GoatInnerTx() == nil {
		t.Fatal("GoatInnerTx: expected decoded inner")
	}
	mint := tx.GoatDeposit()
	if mint == nil {
		t.Fatal("GoatDeposit: expected mint for deposit route")
	}
	if mint.Address != HexToAddress("0x5e4e4d79f08120352f04d638adec7d3892b28045") {
		t.Fatalf("GoatDeposit address: got %s", mint.Address.Hex())
	}
	if tx.GoatWithdraw() != nil {
		t.Fatal("GoatWithdraw: expected nil for deposit route")
	}
}

func TestTransactionGoatAccessorsNonGoat(t *testing.T) {
	to := HexToAddress("0x1111111111111111111111111111111111111111")
	tx := NewTransaction(&LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000, To: &to})

	if tx.IsGoat() {
		t.Fatal("IsGoat: expected false for legacy tx")
	}
	if tx.GoatModule() != 0 || tx.GoatAction() != 0 {
		t.Fatal("module/action must be zero for legacy tx")
	}
	if tx.GoatInnerTx() != nil || tx.GoatDeposit() != nil || tx.GoatWithdraw() != nil {
		t.Fatal("goat accessors must be nil for legacy tx")
	}
	// Restamping is a no-op on non-goat transactions.
	tx.SetGoatChainID(GoatTestnetChainID)
}

func TestTransactionSetGoatChainID(t *testing.T) {
	inner := newTestGoatTx(t, 2)
	tx := NewTransaction(inner)
	before := tx.Hash()

	tx.SetGoatChainID(GoatTestnetChainID)
	if inner.ChainID != GoatTestnetChainID {
		t.Fatalf("chain id: got %d", inner.ChainID)
	}
	if tx.Hash() != before {
		t.Fatal("restamping the chain id must not change the hash")
	}
}
