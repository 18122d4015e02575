package rlp

import "errors"

// Decoding errors. Canonical-form violations are rejected so that every
// value has exactly one valid encoding, which the transaction hash rules
// depend on.
var (
	// ErrExpectedString is returned when a list is encountered where a string was expected.
	ErrExpectedString = errors.New("rlp: expected string")

	// ErrExpectedList is returned when a string is encountered where a list was expected.
	ErrExpectedList = errors.New("rlp: expected list")

	// ErrCanonSize is returned when a string uses a long-form size prefix
	// for a length that fits the short form.
	ErrCanonSize = errors.New("rlp: non-canonical size information")

	// ErrEOL is returned when the end of the current list has been reached.
	ErrEOL = errors.New("rlp: end of list")

	// ErrCanonInt is returned when an integer has leading zero bytes.
	ErrCanonInt = errors.New("rlp: non-canonical integer encoding")

	// ErrNonCanonicalSize is returned when a size prefix is not in canonical form.
	ErrNonCanonicalSize = errors.New("rlp: non-canonical size")

	// ErrUint64Range is returned when a decoded integer does not fit the
	// target integer type.
	ErrUint64Range = errors.New("rlp: uint64 overflow")

	// ErrValueTooLarge is returned when a value is too large to encode.
	ErrValueTooLarge = errors.New("rlp: value too large")

	// ErrMoreThanOneValue is returned by DecodeBytes when the input has
	// trailing bytes after the first value.
	ErrMoreThanOneValue = errors.New("rlp: input contains more than one value")
)
