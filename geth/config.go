package geth

import (
	"github.com/ethereum/go-ethereum/params"

	"github.com/goatnetwork/goat-consensus/core"
)

// ToGethChainConfig converts a goat-consensus ChainConfig to a go-ethereum
// ChainConfig. The Goat gate (GoatBlock) has no go-ethereum counterpart:
// Goat transactions are applied by the consensus layer and reach the EVM
// only as the legacy-shaped calls produced by GoatToGethTx.
func ToGethChainConfig(c *core.ChainConfig) *params.ChainConfig {
	if c == nil {
		return nil
	}
	return &params.ChainConfig{
		ChainID: c.ChainID,

		// Block-number forks (pre-merge).
		HomesteadBlock:      c.HomesteadBlock,
		EIP150Block:         c.EIP150Block,
		EIP155Block:         c.EIP155Block,
		EIP158Block:         c.EIP158Block,
		ByzantiumBlock:      c.ByzantiumBlock,
		ConstantinopleBlock: c.ConstantinopleBlock,
		PetersburgBlock:     c.PetersburgBlock,
		IstanbulBlock:       c.IstanbulBlock,
		MuirGlacierBlock:    c.MuirGlacierBlock,
		BerlinBlock:         c.BerlinBlock,
		LondonBlock:         c.LondonBlock,
		ArrowGlacierBlock:   c.ArrowGlacierBlock,
		GrayGlacierBlock:    c.GrayGlacierBlock,

		// Merge.
		TerminalTotalDifficulty: c.TerminalTotalDifficulty,

		// Timestamp forks (post-merge).
		ShanghaiTime: c.ShanghaiTime,
		CancunTime:   c.CancunTime,
	}
}

// GoatMainnetGethConfig returns the Goat mainnet chain config in
// go-ethereum form.
func GoatMainnetGethConfig() *params.ChainConfig {
	return ToGethChainConfig(core.GoatMainnetConfig)
}

// GoatTestnetGethConfig returns the Goat testnet chain config in
// go-ethereum form.
func GoatTestnetGethConfig() *params.ChainConfig {
	return ToGethChainConfig(core.GoatTestnetConfig)
}
