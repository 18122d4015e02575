package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// txJSON is the JSON representation of a transaction. Fields that do not
// apply to a given type are omitted.
type txJSON struct {
	Type      string `json:"type"`
	ChainID   string `json:"chainId,omitempty"`
	Nonce     string `json:"nonce"`
	To        string `json:"to,omitempty"`
	Gas       string `json:"gas"`
	GasPrice  string `json:"gasPrice,omitempty"`
	GasTipCap string `json:"maxPriorityFeePerGas,omitempty"`
	GasFeeCap string `json:"maxFeePerGas,omitempty"`
	Value     string `json:"value"`
	Input     string `json:"input"`

	AccessList []accessTupleJSON `json:"accessList,omitempty"`

	V string `json:"v,omitempty"`
	R string `json:"r,omitempty"`
	S string `json:"s,omitempty"`

	// Goat envelope fields.
	Module string `json:"module,omitempty"`
	Action string `json:"action,omitempty"`

	Hash string `json:"hash"`
}

type accessTupleJSON struct {
	Address     string   `json:"address"`
	StorageKeys []string `json:"storageKeys"`
}

// MarshalJSON encodes the transaction to its JSON representation.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	out := &txJSON{
		Type:  encodeUint64(uint64(tx.Type())),
		Nonce: encodeUint64(tx.Nonce()),
		Gas:   encodeUint64(tx.Gas()),
		Value: encodeBigInt(tx.Value()),
		Input: encodeBytes(tx.Data()),
		Hash:  encodeHash(tx.Hash()),
	}
	if to := tx.To(); to != nil {
		out.To = encodeAddress(*to)
	}

	switch t := tx.inner.(type) {
	case *LegacyTx:
		out.GasPrice = encodeBigInt(t.GasPrice)
		out.V = encodeBigInt(t.V)
		out.R = encodeBigInt(t.R)
		out.S = encodeBigInt(t.S)

	case *AccessListTx:
		out.ChainID = encodeBigInt(t.ChainID)
		out.GasPrice = encodeBigInt(t.GasPrice)
		out.AccessList = encodeAccessListJSON(t.AccessList)
		out.V = encodeBigInt(t.V)
		out.R = encodeBigInt(t.R)
		out.S = encodeBigInt(t.S)

	case *DynamicFeeTx:
		out.ChainID = encodeBigInt(t.ChainID)
		out.GasTipCap = encodeBigInt(t.GasTipCap)
		out.GasFeeCap = encodeBigInt(t.GasFeeCap)
		out.AccessList = encodeAccessListJSON(t.AccessList)
		out.V = encodeBigInt(t.V)
		out.R = encodeBigInt(t.R)
		out.S = encodeBigInt(t.S)

	case *GoatTx:
		out.ChainID = encodeUint64(t.ChainID)
		out.Module = encodeUint64(uint64(t.Module))
		out.Action = encodeUint64(uint64(t.Action))

	default:
		return nil, errUnknownTxType
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a transaction from its JSON representation. Goat
// transactions have their payload decoded eagerly; a payload that does not
// match its module and action route is rejected here.
func (tx *Transaction) UnmarshalJSON(input []byte) error {
	var dec txJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}

	typeID := uint64(LegacyTxType)
	if dec.Type != "" {
		var err error
		typeID, err = decodeUint64(dec.Type)
		if err != nil {
			return fmt.Errorf("invalid tx type: %w", err)
		}
	}

	nonce, err := decodeUint64(orZeroHex(dec.Nonce))
	if err != nil {
		return fmt.Errorf("invalid nonce: %w", err)
	}
	data, err := decodeBytes(dec.Input)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	var inner TxData
	switch typeID {
	case LegacyTxType:
		legacy := &LegacyTx{Nonce: nonce, Data: data}
		if legacy.Gas, err = decodeUint64(orZeroHex(dec.Gas)); err != nil {
			return fmt.Errorf("invalid gas: %w", err)
		}
		if legacy.GasPrice, err = decodeBigInt(dec.GasPrice); err != nil {
			return fmt.Errorf("invalid gasPrice: %w", err)
		}
		if legacy.Value, err = decodeBigInt(dec.Value); err != nil {
			return fmt.Errorf("invalid value: %w", err)
		}
		if legacy.To, err = decodeAddressPtr(dec.To); err != nil {
			return fmt.Errorf("invalid to: %w", err)
		}
		if legacy.V, legacy.R, legacy.S, err = decodeSignature(dec.V, dec.R, dec.S); err != nil {
			return err
		}
		inner = legacy

	case AccessListTxType:
		al := &AccessListTx{Nonce: nonce, Data: data}
		if al.ChainID, err = decodeBigInt(dec.ChainID); err != nil {
			return fmt.Errorf("invalid chainId: %w", err)
		}
		if al.Gas, err = decodeUint64(orZeroHex(dec.Gas)); err != nil {
			return fmt.Errorf("invalid gas: %w", err)
		}
		if al.GasPrice, err = decodeBigInt(dec.GasPrice); err != nil {
			return fmt.Errorf("invalid gasPrice: %w", err)
		}
		if al.Value, err = decodeBigInt(dec.Value); err != nil {
			return fmt.Errorf("invalid value: %w", err)
		}
		if al.To, err = decodeAddressPtr(dec.To); err != nil {
			return fmt.Errorf("invalid to: %w", err)
		}
		if al.AccessList, err = decodeAccessListJSON(dec.AccessList); err != nil {
			return err
		}
		if al.V, al.R, al.S, err = decodeSignature(dec.V, dec.R, dec.S); err != nil {
			return err
		}
		inner = al

	case DynamicFeeTxType:
		dyn := &DynamicFeeTx{Nonce: nonce, Data: data}
		if dyn.ChainID, err = decodeBigInt(dec.ChainID); err != nil {
			return fmt.Errorf("invalid chainId: %w", err)
		}
		if dyn.Gas, err = decodeUint64(orZeroHex(dec.Gas)); err != nil {
			return fmt.Errorf("invalid gas: %w", err)
		}
		if dyn.GasTipCap, err = decodeBigInt(dec.GasTipCap); err != nil {
			return fmt.Errorf("invalid maxPriorityFeePerGas: %w", err)
		}
		if dyn.GasFeeCap, err = decodeBigInt(dec.GasFeeCap); err != nil {
			return fmt.Errorf("invalid maxFeePerGas: %w", err)
		}
		if dyn.Value, err = decodeBigInt(dec.Value); err != nil {
			return fmt.Errorf("invalid value: %w", err)
		}
		if dyn.To, err = decodeAddressPtr(dec.To); err != nil {
			return fmt.Errorf("invalid to: %w", err)
		}
		if dyn.AccessList, err = decodeAccessListJSON(dec.AccessList); err != nil {
			return err
		}
		if dyn.V, dyn.R, dyn.S, err = decodeSignature(dec.V, dec.R, dec.S); err != nil {
			return err
		}
		inner = dyn

	case uint64(GoatTxType):
		module, err := decodeUint64(orZeroHex(dec.Module))
		if err != nil {
			return fmt.Errorf("invalid module: %w", err)
		}
		action, err := decodeUint64(orZeroHex(dec.Action))
		if err != nil {
			return fmt.Errorf("invalid action: %w", err)
		}
		chainID := GoatChainID
		if dec.ChainID != "" {
			if chainID, err = decodeUint64(dec.ChainID); err != nil {
				return fmt.Errorf("invalid chainId: %w", err)
			}
		}
		goat, err := NewGoatTx(GoatModule(module), GoatAction(action), nonce, data, chainID)
		if err != nil {
			return err
		}
		inner = goat

	default:
		return fmt.Errorf("unsupported transaction type: 0x%02x", typeID)
	}

	tx.inner = inner
	tx.hash.Store(nil)
	tx.size.Store(0)
	tx.from.Store(nil)
	return nil
}

func encodeAccessListJSON(al AccessList) []accessTupleJSON {
	if al == nil {
		return nil
	}
	out := make([]accessTupleJSON, len(al))
	for i, tuple := range al {
		keys := make([]string, len(tuple.StorageKeys))
		for j, k := range tuple.StorageKeys {
			keys[j] = encodeHash(k)
		}
		out[i] = accessTupleJSON{
			Address:     encodeAddress(tuple.Address),
			StorageKeys: keys,
		}
	}
	return out
}

func decodeAccessListJSON(al []accessTupleJSON) (AccessList, error) {
	if al == nil {
		return nil, nil
	}
	out := make(AccessList, len(al))
	for i, tuple := range al {
		addr, err := decodeAddress(tuple.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid access list address: %w", err)
		}
		keys := make([]Hash, len(tuple.StorageKeys))
		for j, k := range tuple.StorageKeys {
			if keys[j], err = decodeHash(k); err != nil {
				return nil, fmt.Errorf("invalid access list storage key: %w", err)
			}
		}
		out[i] = AccessTuple{Address: addr, StorageKeys: keys}
	}
	return out, nil
}

func decodeSignature(v, r, s string) (*big.Int, *big.Int, *big.Int, error) {
	vv, err := decodeBigInt(v)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid v: %w", err)
	}
	rv, err := decodeBigInt(r)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid r: %w", err)
	}
	sv, err := decodeBigInt(s)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid s: %w", err)
	}
	return vv, rv, sv, nil
}

// ---- Hex string helpers ----

func encodeUint64(n uint64) string {
	return "0x" + strconv.FormatUint(n, 16)
}

func encodeBigInt(n *big.Int) string {
	if n == nil {
		return "0x0"
	}
	return "0x" + n.Text(16)
}

func encodeBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func encodeHash(h Hash) string {
	return "0x" + hex.EncodeToString(h[:])
}

func encodeAddress(a Address) string {
	return "0x" + hex.EncodeToString(a[:])
}

func orZeroHex(s string) string {
	if s == "" {
		return "0x0"
	}
	return s
}

func decodeUint64(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty hex string")
	}
	return strconv.ParseUint(s, 0, 64)
}

func decodeBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex number %q", s)
	}
	return n, nil
}

func decodeBytes(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return []byte{}, nil
	}
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

func decodeAddress(s string) (Address, error) {
	b, err := decodeBytes(s)
	if err != nil {
		return Address{}, err
	}
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("invalid address length %d", len(b))
	}
	return BytesToAddress(b), nil
}

func decodeAddressPtr(s string) (*Address, error) {
	if s == "" {
		return nil, nil
	}
	a, err := decodeAddress(s)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func decodeHash(s string) (Hash, error) {
	b, err := decodeBytes(s)
	if err != nil {
		return Hash{}, err
	}
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("invalid hash length %d", len(b))
	}
	return BytesToHash(b), nil
}
