package types

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

// mustGoatPayload decodes a hex payload fixture. Shared by the goat decode
// tests in this package.
func mustGoatPayload(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad payload fixture %q: %v", s, err)
	}
	return b
}

// goatVariantDecoders lists every inner variant with its expected selector
// and size, wrapping each decoder behind a uniform error-only signature.
func goatVariantDecoders() []struct {
	name     string
	selector [4]byte
	size     int
	decode   func([]byte) error
} {
	return []struct {
		name     string
		selector [4]byte
		size     int
		decode   func([]byte) error
	}{
		{"newBtcBlock", NewBtcBlockTxSelector, NewBtcBlockTxSize, func(b []byte) error { _, err := DecodeNewBtcBlockTx(b); return err }},
		{"cancel2", Cancel2TxSelector, Cancel2TxSize, func(b []byte) error { _, err := DecodeCancel2Tx(b); return err }},
		{"paid", PaidTxSelector, PaidTxSize, func(b []byte) error { _, err := DecodePaidTx(b); return err }},
		{"deposit", DepositTxSelector, DepositTxSize, func(b []byte) error { _, err := DecodeDepositTx(b); return err }},
		{"completeUnlock", CompleteUnlockTxSelector, CompleteUnlockTxSize, func(b []byte) error { _, err := DecodeCompleteUnlockTx(b); return err }},
		{"distributeReward", DistributeRewardTxSelector, DistributeRewardTxSize, func(b []byte) error { _, err := DecodeDistributeRewardTx(b); return err }},
	}
}

func TestGoatPayloadLengthMismatch(t *testing.T) {
	for _, tt := range goatVariantDecoders() {
		t.Run(tt.name, func(t *testing.T) {
			for _, n := range []int{0, tt.size - 1, tt.size + 1} {
				buf := make([]byte, n)
				copy(buf, tt.selector[:])
				err := tt.decode(buf)
				if err == nil {
					t.Fatalf("length %d: expected error", n)
				}
				if !errors.Is(err, ErrGoatLength) {
					t.Fatalf("length %d: expected ErrGoatLength, got %v", n, err)
				}
				var lenErr *GoatLengthError
				if !errors.As(err, &lenErr) {
					t.Fatalf("length %d: expected *GoatLengthError, got %T", n, err)
				}
				if lenErr.Expected != tt.size || lenErr.Actual != n {
					t.Errorf("length %d: got expected=%d actual=%d", n, lenErr.Expected, lenErr.Actual)
				}
			}
		})
	}
}

func TestGoatPayloadLengthCheckedBeforeSelector(t *testing.T) {
	// A buffer that is both too long and has a corrupt selector must fail on
	// length: the length check runs first.
	for _, tt := range goatVariantDecoders() {
		buf := make([]byte, tt.size+1)
		buf[0] = tt.selector[0] ^ 0xff
		err := tt.decode(buf)
		if !errors.Is(err, ErrGoatLength) {
			t.Errorf("%s: expected ErrGoatLength, got %v", tt.name, err)
		}
	}
}

func TestGoatPayloadSelectorMismatch(t *testing.T) {
	for _, tt := range goatVariantDecoders() {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			copy(buf, tt.selector[:])
			buf[0] ^= 0xff
			err := tt.decode(buf)
			if err == nil {
				t.Fatal("expected error for corrupt selector")
			}
			if !errors.Is(err, ErrGoatSelector) {
				t.Fatalf("expected ErrGoatSelector, got %v", err)
			}
			var selErr *GoatSelectorError
			if !errors.As(err, &selErr) {
				t.Fatalf("expected *GoatSelectorError, got %T", err)
			}
			if selErr.Want != tt.selector {
				t.Errorf("want selector: got %x, expected %x", selErr.Want, tt.selector)
			}
			if selErr.Got[0] != tt.selector[0]^0xff {
				t.Errorf("got selector not reported: %x", selErr.Got)
			}
		})
	}
}

func TestGoatReaderFieldOrder(t *testing.T) {
	// One payload exercising every accessor: selector, then a hash word, an
	// address word, a uint256 word, a uint64 tail and a uint32 tail.
	sel := [4]byte{0xde, 0xad, 0xbe, 0xef}
	wantHash := HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")
	wantAddr := HexToAddress("0x5e4e4d79f08120352f04d638adec7d3892b28045")

	buf := make([]byte, 4+5*32)
	copy(buf, sel[:])
	copy(buf[4:36], wantHash[:])
	copy(buf[36+12:68], wantAddr[:])
	buf[68+31] = 0x2a // uint256 word = 42
	copy(buf[100+24:132], []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	copy(buf[132+28:164], []byte{0x0a, 0x0b, 0x0c, 0x0d})

	r, err := newGoatReader(buf, sel, len(buf))
	if err != nil {
		t.Fatalf("newGoatReader: %v", err)
	}

	h, err := r.hash()
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h != wantHash {
		t.Fatalf("hash: got %s", h.Hex())
	}

	a, err := r.address()
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	if a != wantAddr {
		t.Fatalf("address: got %s", a.Hex())
	}

	u, err := r.uint256Word()
	if err != nil {
		t.Fatalf("uint256Word: %v", err)
	}
	if !u.Eq(uint256.NewInt(42)) {
		t.Fatalf("uint256Word: got %s", u.Dec())
	}

	v64, err := r.uint64Tail()
	if err != nil {
		t.Fatalf("uint64Tail: %v", err)
	}
	if v64 != 0x0102030405060708 {
		t.Fatalf("uint64Tail: got %#x", v64)
	}

	v32, err := r.uint32Tail()
	if err != nil {
		t.Fatalf("uint32Tail: %v", err)
	}
	if v32 != 0x0a0b0c0d {
		t.Fatalf("uint32Tail: got %#x", v32)
	}
}

func TestGoatReaderOverrun(t *testing.T) {
	sel := [4]byte{0x01, 0x02, 0x03, 0x04}
	buf := make([]byte, 4+32)
	copy(buf, sel[:])

	r, err := newGoatReader(buf, sel, len(buf))
	if err != nil {
		t.Fatalf("newGoatReader: %v", err)
	}
	if _, err := r.word(); err != nil {
		t.Fatalf("first word: %v", err)
	}
	if _, err := r.word(); !errors.Is(err, ErrGoatMalformedField) {
		t.Fatalf("expected ErrGoatMalformedField past the end, got %v", err)
	}
}

func TestGoatReaderAddressPaddingIgnored(t *testing.T) {
	// Non-zero bytes in the 12-byte padding ahead of an address are ignored,
	// matching the deployed wire format.
	sel := [4]byte{0x01, 0x02, 0x03, 0x04}
	wantAddr := HexToAddress("0x5b38da6a701c568545dcfcb03fcb875f56beddc4")

	buf := make([]byte, 4+32)
	copy(buf, sel[:])
	for i := 4; i < 16; i++ {
		buf[i] = 0xff
	}
	copy(buf[16:], wantAddr[:])

	r, err := newGoatReader(buf, sel, len(buf))
	if err != nil {
		t.Fatalf("newGoatReader: %v", err)
	}
	a, err := r.address()
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	if a != wantAddr {
		t.Fatalf("address: got %s, want %s", a.Hex(), wantAddr.Hex())
	}
}
