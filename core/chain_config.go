package core

import (
	"math/big"

	"github.com/goatnetwork/goat-consensus/core/types"
)

// ChainConfig holds chain-level configuration for fork scheduling.
// Pre-merge forks are activated by block number, post-merge by timestamp.
// Goat networks activate the whole Ethereum ladder at genesis and add one
// chain-specific gate, GoatBlock, for the bridge and locking modules.
type ChainConfig struct {
	ChainID *big.Int

	// Block-number based forks (pre-merge)
	HomesteadBlock      *big.Int
	EIP150Block         *big.Int
	EIP155Block         *big.Int
	EIP158Block         *big.Int
	ByzantiumBlock      *big.Int
	ConstantinopleBlock *big.Int
	PetersburgBlock     *big.Int
	IstanbulBlock       *big.Int
	MuirGlacierBlock    *big.Int
	BerlinBlock         *big.Int
	LondonBlock         *big.Int
	ArrowGlacierBlock   *big.Int
	GrayGlacierBlock    *big.Int

	// GoatBlock activates Goat transactions (type 0x60).
	GoatBlock *big.Int

	// TerminalTotalDifficulty triggers the merge consensus upgrade.
	TerminalTotalDifficulty *big.Int

	// Timestamp-based forks (post-merge)
	ShanghaiTime *uint64
	CancunTime   *uint64
}

// Block-number fork checks

func isBlockForked(forkBlock, head *big.Int) bool {
	if forkBlock == nil || head == nil {
		return false
	}
	return forkBlock.Cmp(head) <= 0
}

// IsHomestead returns whether the given block number is at or past Homestead.
func (c *ChainConfig) IsHomestead(num *big.Int) bool {
	return isBlockForked(c.HomesteadBlock, num)
}

// IsEIP150 returns whether the given block number is at or past EIP-150.
func (c *ChainConfig) IsEIP150(num *big.Int) bool {
	return isBlockForked(c.EIP150Block, num)
}

// IsEIP155 returns whether the given block number is at or past EIP-155.
func (c *ChainConfig) IsEIP155(num *big.Int) bool {
	return isBlockForked(c.EIP155Block, num)
}

// IsEIP158 returns whether the given block number is at or past EIP-158.
func (c *ChainConfig) IsEIP158(num *big.Int) bool {
	return isBlockForked(c.EIP158Block, num)
}

// IsByzantium returns whether the given block number is at or past Byzantium.
func (c *ChainConfig) IsByzantium(num *big.Int) bool {
	return isBlockForked(c.ByzantiumBlock, num)
}

// IsConstantinople returns whether the given block number is at or past Constantinople.
func (c *ChainConfig) IsConstantinople(num *big.Int) bool {
	return isBlockForked(c.ConstantinopleBlock, num)
}

// IsPetersburg returns whether the given block number is at or past Petersburg.
// Petersburg is a fix-fork for Constantinople; if PetersburgBlock is nil,
// it activates at the same block as Constantinople.
func (c *ChainConfig) IsPetersburg(num *big.Int) bool {
	return isBlockForked(c.PetersburgBlock, num) || c.PetersburgBlock == nil && isBlockForked(c.ConstantinopleBlock, num)
}

// IsIstanbul returns whether the given block number is at or past Istanbul.
func (c *ChainConfig) IsIstanbul(num *big.Int) bool {
	return isBlockForked(c.IstanbulBlock, num)
}

// IsBerlin returns whether the given block number is at or past Berlin.
func (c *ChainConfig) IsBerlin(num *big.Int) bool {
	return isBlockForked(c.BerlinBlock, num)
}

// IsLondon returns whether the given block number is at or past London.
func (c *ChainConfig) IsLondon(num *big.Int) bool {
	return isBlockForked(c.LondonBlock, num)
}

// IsGoat returns whether Goat transactions are accepted at the given block
// number.
func (c *ChainConfig) IsGoat(num *big.Int) bool {
	return isBlockForked(c.GoatBlock, num)
}

// IsGoatNetwork returns whether the config's chain id names one of the
// Goat networks.
func (c *ChainConfig) IsGoatNetwork() bool {
	if c.ChainID == nil || !c.ChainID.IsUint64() {
		return false
	}
	id := c.ChainID.Uint64()
	return id == types.GoatChainID || id == types.GoatTestnetChainID
}

// Timestamp-based fork checks

func isTimestampForked(forkTime *uint64, blockTime uint64) bool {
	if forkTime == nil {
		return false
	}
	return *forkTime <= blockTime
}

// IsShanghai returns whether the given block time is at or past Shanghai.
func (c *ChainConfig) IsShanghai(time uint64) bool {
	return isTimestampForked(c.ShanghaiTime, time)
}

// IsCancun returns whether the given block time is at or past Cancun.
func (c *ChainConfig) IsCancun(time uint64) bool {
	return isTimestampForked(c.CancunTime, time)
}

// Merge check

// IsMerge returns whether terminal total difficulty has been set,
// indicating the chain has transitioned to proof-of-stake.
func (c *ChainConfig) IsMerge() bool {
	return c.TerminalTotalDifficulty != nil
}

// EIP-specific convenience checks

// IsEIP1559 returns whether EIP-1559 (base fee) is active. Activated with London.
func (c *ChainConfig) IsEIP1559(num *big.Int) bool {
	return c.IsLondon(num)
}

// IsEIP2929 returns whether EIP-2929 (gas cost increases for state access) is active. Activated with Berlin.
func (c *ChainConfig) IsEIP2929(num *big.Int) bool {
	return c.IsBerlin(num)
}

// IsEIP3529 returns whether EIP-3529 (reduction in refunds) is active. Activated with London.
func (c *ChainConfig) IsEIP3529(num *big.Int) bool {
	return c.IsLondon(num)
}

// Rules returns a Rules struct for the given block number and timestamp,
// providing boolean flags for quick fork checks.
func (c *ChainConfig) Rules(num *big.Int, isMerge bool, timestamp uint64) Rules {
	// Disallow setting merge out of order.
	isMerge = isMerge && c.IsLondon(num)
	return Rules{
		ChainID:          new(big.Int).Set(c.ChainID),
		IsHomestead:      c.IsHomestead(num),
		IsEIP150:         c.IsEIP150(num),
		IsEIP155:         c.IsEIP155(num),
		IsEIP158:         c.IsEIP158(num),
		IsByzantium:      c.IsByzantium(num),
		IsConstantinople: c.IsConstantinople(num),
		IsPetersburg:     c.IsPetersburg(num),
		IsIstanbul:       c.IsIstanbul(num),
		IsBerlin:         c.IsBerlin(num),
		IsEIP2929:        c.IsBerlin(num),
		IsLondon:         c.IsLondon(num),
		IsEIP1559:        c.IsLondon(num),
		IsEIP3529:        c.IsLondon(num),
		IsMerge:          isMerge,
		IsShanghai:       isMerge && c.IsShanghai(timestamp),
		IsCancun:         isMerge && c.IsCancun(timestamp),
		IsGoat:           c.IsGoat(num),
	}
}

// Rules contains boolean flags for quick fork activation checks.
type Rules struct {
	ChainID                                                 *big.Int
	IsHomestead, IsEIP150, IsEIP155, IsEIP158               bool
	IsByzantium, IsConstantinople, IsPetersburg, IsIstanbul bool
	IsBerlin, IsEIP2929                                     bool
	IsLondon, IsEIP1559, IsEIP3529                          bool
	IsMerge                                                 bool
	IsShanghai                                              bool
	IsCancun                                                bool
	IsGoat                                                  bool
}

func newUint64(v uint64) *uint64 { return &v }

// GoatMainnetConfig is the chain config for the Goat mainnet.
// Every Ethereum fork through Shanghai is active at genesis; blob
// transactions (Cancun) are not enabled.
var GoatMainnetConfig = &ChainConfig{
	ChainID:                 big.NewInt(2345),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	GoatBlock:               big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(0),
	ShanghaiTime:            newUint64(0),
	CancunTime:              nil,
}

// GoatTestnetConfig is the chain config for the Goat testnet.
var GoatTestnetConfig = &ChainConfig{
	ChainID:                 big.NewInt(48816),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	GoatBlock:               big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(0),
	ShanghaiTime:            newUint64(0),
	CancunTime:              nil,
}

// TestConfig is a chain config for unit tests with every fork, including
// the Goat gate, active at genesis.
var TestConfig = &ChainConfig{
	ChainID:                 big.NewInt(1337),
	HomesteadBlock:          big.NewInt(0),
	EIP150Block:             big.NewInt(0),
	EIP155Block:             big.NewInt(0),
	EIP158Block:             big.NewInt(0),
	ByzantiumBlock:          big.NewInt(0),
	ConstantinopleBlock:     big.NewInt(0),
	PetersburgBlock:         big.NewInt(0),
	IstanbulBlock:           big.NewInt(0),
	MuirGlacierBlock:        big.NewInt(0),
	BerlinBlock:             big.NewInt(0),
	LondonBlock:             big.NewInt(0),
	GoatBlock:               big.NewInt(0),
	TerminalTotalDifficulty: big.NewInt(0),
	ShanghaiTime:            newUint64(0),
	CancunTime:              newUint64(0),
}
