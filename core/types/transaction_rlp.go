package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/goatnetwork/goat-consensus/rlp"
	"golang.org/x/crypto/sha3"
)

var (
	errUnknownTxType = errors.New("unknown transaction type")
	errShortTypedTx  = errors.New("typed transaction too short")
)

// ---- RLP helper structs (field order matches the wire encoding) ----

// legacyTxRLP is the RLP encoding layout for LegacyTx.
// Fields: [nonce, gasPrice, gasLimit, to, value, data, v, r, s]
type legacyTxRLP struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       []byte // empty for contract creation, 20 bytes otherwise
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

// accessListTxRLP is the RLP encoding layout for AccessListTx (EIP-2930).
// Fields: [chainID, nonce, gasPrice, gasLimit, to, value, data, accessList, v, r, s]
type accessListTxRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *big.Int
	Gas        uint64
	To         []byte
	Value      *big.Int
	Data       []byte
	AccessList []accessTupleRLP
	V          *big.Int
	R          *big.Int
	S          *big.Int
}

// dynamicFeeTxRLP is the RLP encoding layout for DynamicFeeTx (EIP-1559).
// Fields: [chainID, nonce, maxPriorityFeePerGas, maxFeePerGas, gasLimit, to, value, data, accessList, v, r, s]
type dynamicFeeTxRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	Gas        uint64
	To         []byte
	Value      *big.Int
	Data       []byte
	AccessList []accessTupleRLP
	V          *big.Int
	R          *big.Int
	S          *big.Int
}

type accessTupleRLP struct {
	Address     Address
	StorageKeys []Hash
}

// ---- Encoding ----

// EncodeRLP returns the RLP envelope encoding of the transaction.
// For legacy txs: RLP([nonce, gasPrice, ...])
// For typed txs: type_byte || RLP([...])
func (tx *Transaction) EncodeRLP() ([]byte, error) {
	switch inner := tx.inner.(type) {
	case *LegacyTx:
		return encodeLegacyTx(inner)
	case *AccessListTx:
		return encodeTypedTx(AccessListTxType, inner)
	case *DynamicFeeTx:
		return encodeTypedTx(DynamicFeeTxType, inner)
	case *GoatTx:
		return EncodeGoatTx(inner)
	default:
		return nil, errUnknownTxType
	}
}

func encodeLegacyTx(tx *LegacyTx) ([]byte, error) {
	enc := legacyTxRLP{
		Nonce:    tx.Nonce,
		GasPrice: bigOrZero(tx.GasPrice),
		Gas:      tx.Gas,
		To:       addressPtrToBytes(tx.To),
		Value:    bigOrZero(tx.Value),
		Data:     tx.Data,
		V:        bigOrZero(tx.V),
		R:        bigOrZero(tx.R),
		S:        bigOrZero(tx.S),
	}
	return rlp.EncodeToBytes(enc)
}

func encodeTypedTx(txType byte, inner TxData) ([]byte, error) {
	var payload []byte
	var err error

	switch tx := inner.(type) {
	case *AccessListTx:
		enc := accessListTxRLP{
			ChainID:    bigOrZero(tx.ChainID),
			Nonce:      tx.Nonce,
			GasPrice:   bigOrZero(tx.GasPrice),
			Gas:        tx.Gas,
			To:         addressPtrToBytes(tx.To),
			Value:      bigOrZero(tx.Value),
			Data:       tx.Data,
			AccessList: encodeAccessList(tx.AccessList),
			V:          bigOrZero(tx.V),
			R:          bigOrZero(tx.R),
			S:          bigOrZero(tx.S),
		}
		payload, err = rlp.EncodeToBytes(enc)

	case *DynamicFeeTx:
		enc := dynamicFeeTxRLP{
			ChainID:    bigOrZero(tx.ChainID),
			Nonce:      tx.Nonce,
			GasTipCap:  bigOrZero(tx.GasTipCap),
			GasFeeCap:  bigOrZero(tx.GasFeeCap),
			Gas:        tx.Gas,
			To:         addressPtrToBytes(tx.To),
			Value:      bigOrZero(tx.Value),
			Data:       tx.Data,
			AccessList: encodeAccessList(tx.AccessList),
			V:          bigOrZero(tx.V),
			R:          bigOrZero(tx.R),
			S:          bigOrZero(tx.S),
		}
		payload, err = rlp.EncodeToBytes(enc)

	default:
		return nil, errUnknownTxType
	}

	if err != nil {
		return nil, err
	}
	// Prepend type byte.
	result := make([]byte, 1+len(payload))
	result[0] = txType
	copy(result[1:], payload)
	return result, nil
}

// ---- Decoding ----

// DecodeTxRLP decodes an RLP-encoded transaction.
// If the first byte is <= 0x7f, it's treated as a typed transaction envelope;
// this covers the Goat type byte 0x60. Otherwise, it's decoded as a legacy
// RLP list.
func DecodeTxRLP(data []byte) (*Transaction, error) {
	if len(data) == 0 {
		return nil, errors.New("empty transaction data")
	}
	// Typed transaction: first byte is the type.
	if data[0] <= 0x7f && data[0] != 0 {
		return decodeTypedTx(data[0], data[1:])
	}
	// Legacy transaction: first byte is an RLP list prefix (>= 0xc0) or type 0.
	// Type 0x00 could be ambiguous; check if it starts with a list prefix.
	if data[0] >= 0xc0 {
		return decodeLegacyTx(data)
	}
	// If first byte is 0x00, it could be a typed legacy tx (type 0).
	// Per EIP-2718, type 0 is not formally an envelope type, but we handle
	// it: strip the 0x00 byte and decode the rest as legacy.
	if data[0] == 0x00 {
		if len(data) < 2 {
			return nil, errShortTypedTx
		}
		return decodeLegacyTx(data[1:])
	}
	return nil, fmt.Errorf("invalid transaction encoding, first byte: 0x%02x", data[0])
}

func decodeLegacyTx(data []byte) (*Transaction, error) {
	var dec legacyTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, fmt.Errorf("decode legacy tx: %w", err)
	}
	inner := &LegacyTx{
		Nonce:    dec.Nonce,
		GasPrice: dec.GasPrice,
		Gas:      dec.Gas,
		To:       bytesToAddressPtr(dec.To),
		Value:    dec.Value,
		Data:     dec.Data,
		V:        dec.V,
		R:        dec.R,
		S:        dec.S,
	}
	return NewTransaction(inner), nil
}

func decodeTypedTx(txType byte, payload []byte) (*Transaction, error) {
	if len(payload) == 0 {
		return nil, errShortTypedTx
	}
	switch txType {
	case AccessListTxType:
		return decodeAccessListTx(payload)
	case DynamicFeeTxType:
		return decodeDynamicFeeTx(payload)
	case GoatTxType:
		return decodeGoatTxWrapped(payload)
	default:
		return nil, fmt.Errorf("unsupported transaction type: 0x%02x", txType)
	}
}

func decodeAccessListTx(data []byte) (*Transaction, error) {
	var dec accessListTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, fmt.Errorf("decode access list tx: %w", err)
	}
	inner := &AccessListTx{
		ChainID:    dec.ChainID,
		Nonce:      dec.Nonce,
		GasPrice:   dec.GasPrice,
		Gas:        dec.Gas,
		To:         bytesToAddressPtr(dec.To),
		Value:      dec.Value,
		Data:       dec.Data,
		AccessList: decodeAccessList(dec.AccessList),
		V:          dec.V,
		R:          dec.R,
		S:          dec.S,
	}
	return NewTransaction(inner), nil
}

func decodeDynamicFeeTx(data []byte) (*Transaction, error) {
	var dec dynamicFeeTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, fmt.Errorf("decode dynamic fee tx: %w", err)
	}
	inner := &DynamicFeeTx{
		ChainID:    dec.ChainID,
		Nonce:      dec.Nonce,
		GasTipCap:  dec.GasTipCap,
		GasFeeCap:  dec.GasFeeCap,
		Gas:        dec.Gas,
		To:         bytesToAddressPtr(dec.To),
		Value:      dec.Value,
		Data:       dec.Data,
		AccessList: decodeAccessList(dec.AccessList),
		V:          dec.V,
		R:          dec.R,
		S:          dec.S,
	}
	return NewTransaction(inner), nil
}

// ---- Access list helpers ----

func encodeAccessList(al AccessList) []accessTupleRLP {
	if al == nil {
		return nil
	}
	out := make([]accessTupleRLP, len(al))
	for i, t := range al {
		out[i] = accessTupleRLP{
			Address:     t.Address,
			StorageKeys: t.StorageKeys,
		}
	}
	return out
}

func decodeAccessList(al []accessTupleRLP) AccessList {
	if al == nil {
		return nil
	}
	out := make(AccessList, len(al))
	for i, t := range al {
		out[i] = AccessTuple{
			Address:     t.Address,
			StorageKeys: t.StorageKeys,
		}
	}
	return out
}

// ---- Address encoding helpers ----

func addressPtrToBytes(a *Address) []byte {
	if a == nil {
		return nil
	}
	return a[:]
}

func bytesToAddressPtr(b []byte) *Address {
	if len(b) == 0 {
		return nil
	}
	a := BytesToAddress(b)
	return &a
}

// bigOrZero returns i if non-nil, otherwise a zero big.Int.
func bigOrZero(i *big.Int) *big.Int {
	if i != nil {
		return i
	}
	return new(big.Int)
}

// ---- Hash using Keccak-256 of RLP encoding ----

// hashRLP computes Keccak-256 of the transaction's RLP envelope encoding.
func (tx *Transaction) hashRLP() Hash {
	enc, err := tx.EncodeRLP()
	if err != nil {
		return Hash{}
	}
	d := sha3.NewLegacyKeccak256()
	d.Write(enc)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

// SigningHash returns the hash that was signed to produce the transaction's signature.
// For legacy (pre-EIP-155): Keccak256(RLP([nonce, gasPrice, gas, to, value, data]))
// For EIP-155 legacy: Keccak256(RLP([nonce, gasPrice, gas, to, value, data, chainID, 0, 0]))
// For typed transactions: Keccak256(type || RLP([fields without v, r, s]))
// Goat transactions carry no signature, so their signing hash covers every
// field and equals the transaction hash.
func (tx *Transaction) SigningHash() Hash {
	switch t := tx.inner.(type) {
	case *LegacyTx:
		return signingHashLegacy(t)
	case *AccessListTx:
		return signingHashAccessList(t)
	case *DynamicFeeTx:
		return signingHashDynamicFee(t)
	case *GoatTx:
		return ComputeGoatSigHash(t)
	default:
		return Hash{}
	}
}

// signingHashLegacy computes signing hash for legacy transactions.
func signingHashLegacy(tx *LegacyTx) Hash {
	chainID := deriveChainID(tx.V)
	toBytes := make([]byte, 0)
	if tx.To != nil {
		toBytes = tx.To[:]
	}

	var payload []byte
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = appendBigInt(payload, tx.GasPrice)
	payload = rlp.AppendUint64(payload, tx.Gas)
	payload = rlp.AppendBytes(payload, toBytes)
	payload = appendBigInt(payload, tx.Value)
	payload = rlp.AppendBytes(payload, tx.Data)

	if chainID != nil && chainID.Sign() > 0 {
		payload = appendBigInt(payload, chainID)
		payload = rlp.AppendUint64(payload, 0)
		payload = rlp.AppendUint64(payload, 0)
	}
	encoded := rlp.WrapList(payload)

	d := sha3.NewLegacyKeccak256()
	d.Write(encoded)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

// signingHashAccessList computes signing hash for EIP-2930 transactions.
func signingHashAccessList(tx *AccessListTx) Hash {
	toBytes := make([]byte, 0)
	if tx.To != nil {
		toBytes = tx.To[:]
	}
	var payload []byte
	payload = appendBigInt(payload, tx.ChainID)
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = appendBigInt(payload, tx.GasPrice)
	payload = rlp.AppendUint64(payload, tx.Gas)
	payload = rlp.AppendBytes(payload, toBytes)
	payload = appendBigInt(payload, tx.Value)
	payload = rlp.AppendBytes(payload, tx.Data)
	payload = append(payload, encodeAccessListBytes(tx.AccessList)...)
	return typedSigningHash(AccessListTxType, payload)
}

// signingHashDynamicFee computes signing hash for EIP-1559 transactions.
func signingHashDynamicFee(tx *DynamicFeeTx) Hash {
	toBytes := make([]byte, 0)
	if tx.To != nil {
		toBytes = tx.To[:]
	}
	var payload []byte
	payload = appendBigInt(payload, tx.ChainID)
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = appendBigInt(payload, tx.GasTipCap)
	payload = appendBigInt(payload, tx.GasFeeCap)
	payload = rlp.AppendUint64(payload, tx.Gas)
	payload = rlp.AppendBytes(payload, toBytes)
	payload = appendBigInt(payload, tx.Value)
	payload = rlp.AppendBytes(payload, tx.Data)
	payload = append(payload, encodeAccessListBytes(tx.AccessList)...)
	return typedSigningHash(DynamicFeeTxType, payload)
}

// appendBigInt appends the RLP encoding of i to dst. A nil pointer encodes
// as zero, like the signed-field encoders.
func appendBigInt(dst []byte, i *big.Int) []byte {
	b, _ := rlp.EncodeToBytes(bigOrZero(i))
	return append(dst, b...)
}

// typedSigningHash computes Keccak256(type || RLP_list(payload)).
func typedSigningHash(txType byte, payload []byte) Hash {
	d := sha3.NewLegacyKeccak256()
	d.Write([]byte{txType})
	d.Write(rlp.WrapList(payload))
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

// encodeAccessListBytes RLP-encodes an access list as raw bytes.
func encodeAccessListBytes(list AccessList) []byte {
	var inner []byte
	for _, tuple := range list {
		item := rlp.EncodeBytes20(tuple.Address)
		item = append(item, encodeHashList(tuple.StorageKeys)...)
		inner = append(inner, rlp.WrapList(item)...)
	}
	return rlp.WrapList(inner)
}

// encodeHashList RLP-encodes a list of hashes.
func encodeHashList(hashes []Hash) []byte {
	var inner []byte
	for _, h := range hashes {
		inner = append(inner, rlp.EncodeBytes32(h)...)
	}
	return rlp.WrapList(inner)
}
