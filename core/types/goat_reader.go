package types

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Goat payload decode errors. Variant decoders return the structured
// GoatLengthError/GoatSelectorError values; these sentinels exist so callers
// can match the failure class with errors.Is without caring which variant
// rejected the payload.
var (
	ErrGoatLength         = errors.New("goat payload length mismatch")
	ErrGoatSelector       = errors.New("goat payload selector mismatch")
	ErrGoatMalformedField = errors.New("goat payload field out of bounds")
)

// GoatLengthError reports a payload whose length does not equal the fixed
// size of the expected variant.
type GoatLengthError struct {
	Expected int
	Actual   int
}

func (e *GoatLengthError) Error() string {
	return fmt.Sprintf("goat payload length mismatch: expected %d bytes, got %d", e.Expected, e.Actual)
}

func (e *GoatLengthError) Is(target error) bool { return target == ErrGoatLength }

// GoatSelectorError reports a payload whose leading 4 bytes do not match the
// expected variant's method selector.
type GoatSelectorError struct {
	Want [4]byte
	Got  [4]byte
}

func (e *GoatSelectorError) Error() string {
	return fmt.Sprintf("goat payload selector mismatch: expected %x, got %x", e.Want, e.Got)
}

func (e *GoatSelectorError) Is(target error) bool { return target == ErrGoatSelector }

// goatReader walks a fixed-layout Goat payload: a 4-byte method selector
// followed by 32-byte big-endian argument words. Construction validates the
// exact total length and the selector; the read methods then consume words
// strictly left to right, returning ErrGoatMalformedField on overrun
// rather than panicking.
type goatReader struct {
	buf []byte
	pos int
}

func newGoatReader(buf []byte, selector [4]byte, size int) (*goatReader, error) {
	if len(buf) != size {
		return nil, &GoatLengthError{Expected: size, Actual: len(buf)}
	}
	var got [4]byte
	copy(got[:], buf[:4])
	if got != selector {
		return nil, &GoatSelectorError{Want: selector, Got: got}
	}
	return &goatReader{buf: buf, pos: 4}, nil
}

// word returns the next full 32-byte slot.
func (r *goatReader) word() ([]byte, error) {
	if r.pos+32 > len(r.buf) {
		return nil, ErrGoatMalformedField
	}
	w := r.buf[r.pos : r.pos+32]
	r.pos += 32
	return w, nil
}

// hash reads a 32-byte hash occupying a full slot.
func (r *goatReader) hash() (Hash, error) {
	w, err := r.word()
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], w)
	return h, nil
}

// uint256Word reads a 256-bit unsigned integer from a full slot.
func (r *goatReader) uint256Word() (uint256.Int, error) {
	w, err := r.word()
	if err != nil {
		return uint256.Int{}, err
	}
	var u uint256.Int
	u.SetBytes(w)
	return u, nil
}

// address reads a 20-byte address right-aligned in a slot. The 12 leading
// padding bytes are skipped, not validated; the wire format treats them as
// don't-care bytes.
func (r *goatReader) address() (Address, error) {
	w, err := r.word()
	if err != nil {
		return Address{}, err
	}
	var a Address
	copy(a[:], w[12:])
	return a, nil
}

// uint64Tail reads the low-order 8 bytes of a slot as a big-endian uint64.
func (r *goatReader) uint64Tail() (uint64, error) {
	w, err := r.word()
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(w[24:]), nil
}

// uint32Tail reads the low-order 4 bytes of a slot as a big-endian uint32.
func (r *goatReader) uint32Tail() (uint32, error) {
	w, err := r.word()
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(w[28:]), nil
}
