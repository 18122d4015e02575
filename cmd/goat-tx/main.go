// Command goat-tx decodes and inspects Goat network transactions.
//
// Usage:
//
//	goat-tx [flags] [txhex ...]
//
// Flags:
//
//	--network   Goat network the txs belong to: mainnet, testnet (default: mainnet)
//	--chainid   Override the chain id stamped onto decoded goat txs
//	--file      Read transaction hex strings from a file, one per line
//	--out       Write the decoded envelopes to a file as one RLP list
//	--json      Print transactions as JSON instead of a summary
//	--version   Print version and exit
//
// Transactions are read from the arguments, from --file, or from stdin.
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"strings"

	"github.com/goatnetwork/goat-consensus/core"
	"github.com/goatnetwork/goat-consensus/core/types"
	"github.com/goatnetwork/goat-consensus/rlp"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// config holds the resolved CLI options.
type config struct {
	Network string
	ChainID uint64
	File    string
	Out     string
	JSON    bool
}

func defaultConfig() config {
	return config{Network: "mainnet"}
}

// chainConfig resolves the named network, and the chain id override if one
// was given, to a chain configuration.
func (c *config) chainConfig() (*core.ChainConfig, error) {
	var base *core.ChainConfig
	switch c.Network {
	case "mainnet":
		base = core.GoatMainnetConfig
	case "testnet":
		base = core.GoatTestnetConfig
	default:
		return nil, fmt.Errorf("unknown network %q (want mainnet or testnet)", c.Network)
	}
	if c.ChainID == 0 {
		return base, nil
	}
	custom := *base
	custom.ChainID = new(big.Int).SetUint64(c.ChainID)
	return &custom, nil
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	cfg, rest, exit, code := parseFlags(args)
	if exit {
		return code
	}

	log.SetFlags(0)
	log.SetPrefix("goat-tx: ")

	chainCfg, err := cfg.chainConfig()
	if err != nil {
		log.Printf("%v", err)
		return 2
	}
	if !chainCfg.IsGoatNetwork() {
		log.Printf("warning: chain id %s is not a goat network", chainCfg.ChainID)
	}
	chainID := chainCfg.ChainID.Uint64()

	inputs, err := gatherInputs(cfg, rest)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	if len(inputs) == 0 {
		log.Printf("no transactions given")
		return 2
	}

	txs := make([]*types.Transaction, 0, len(inputs))
	for i, input := range inputs {
		tx, err := decodeOne(input, chainID)
		if err != nil {
			log.Printf("tx %d: %v", i, err)
			return 1
		}
		txs = append(txs, tx)
	}

	for _, tx := range txs {
		if cfg.JSON {
			out, err := json.MarshalIndent(tx, "", "  ")
			if err != nil {
				log.Printf("marshal %s: %v", tx.Hash().Hex(), err)
				return 1
			}
			fmt.Println(string(out))
		} else {
			printSummary(tx)
		}
	}

	if cfg.Out != "" {
		if err := writeBatch(cfg.Out, txs); err != nil {
			log.Printf("write batch: %v", err)
			return 1
		}
	}
	return 0
}

// parseFlags parses CLI arguments into a config. Returns the config, the
// remaining positional arguments, whether the caller should exit
// immediately, and the exit code.
func parseFlags(args []string) (config, []string, bool, int) {
	cfg := defaultConfig()
	fs := newFlagSet(&cfg)

	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, nil, true, 2
	}

	if *showVersion {
		fmt.Printf("goat-tx %s (commit %s)\n", version, commit)
		return cfg, nil, true, 0
	}

	return cfg, fs.Args(), false, 0
}

// newFlagSet creates a flag.FlagSet that binds all CLI flags to the given
// config. The FlagSet uses ContinueOnError so callers control the error
// handling behavior.
func newFlagSet(cfg *config) *flagSet {
	fs := newCustomFlagSet("goat-tx")
	fs.StringVar(&cfg.Network, "network", cfg.Network, "goat network (mainnet, testnet)")
	fs.Uint64Var(&cfg.ChainID, "chainid", cfg.ChainID, "override the chain id stamped onto goat txs")
	fs.StringVar(&cfg.File, "file", cfg.File, "read transaction hex strings from a file, one per line")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "write decoded envelopes to a file as one RLP list")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "print transactions as JSON")
	return fs
}

// gatherInputs collects transaction hex strings from the positional
// arguments, the --file flag, or stdin when neither is given.
func gatherInputs(cfg config, args []string) ([]string, error) {
	inputs := append([]string(nil), args...)
	if cfg.File != "" {
		f, err := os.Open(cfg.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		lines, err := scanHexLines(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", cfg.File, err)
		}
		inputs = append(inputs, lines...)
	}
	if len(inputs) == 0 {
		lines, err := scanHexLines(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		inputs = append(inputs, lines...)
	}
	return inputs, nil
}

// scanHexLines reads non-empty, non-comment lines from r.
func scanHexLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// decodeOne decodes a hex-encoded transaction envelope and stamps the
// configured chain id onto goat transactions.
func decodeOne(input string, chainID uint64) (*types.Transaction, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(input, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	tx, err := types.DecodeTxRLP(raw)
	if err != nil {
		return nil, err
	}
	tx.SetGoatChainID(chainID)
	return tx, nil
}

// printSummary prints a human-readable description of one transaction.
func printSummary(tx *types.Transaction) {
	fmt.Printf("tx %s\n", tx.Hash().Hex())

	if tx.IsGoat() {
		inner := tx.GoatInnerTx()
		module := tx.GoatModule()
		fmt.Printf("  type:     goat (0x%02x)\n", tx.Type())
		fmt.Printf("  route:    %s/%s\n", module, module.ActionName(tx.GoatAction()))
		fmt.Printf("  nonce:    %d\n", tx.Nonce())
		fmt.Printf("  sender:   %s\n", inner.Sender().Hex())
		fmt.Printf("  contract: %s\n", inner.Contract().Hex())
		if d := tx.GoatDeposit(); d != nil {
			fmt.Printf("  deposit:  %s amount=%s tax=%s\n", d.Address.Hex(), d.Amount.Dec(), d.Tax.Dec())
		}
		if w := tx.GoatWithdraw(); w != nil {
			fmt.Printf("  withdraw: %s amount=%s\n", w.Address.Hex(), w.Amount.Dec())
		}
		return
	}

	fmt.Printf("  type:     0x%02x\n", tx.Type())
	fmt.Printf("  nonce:    %d\n", tx.Nonce())
	if to := tx.To(); to != nil {
		fmt.Printf("  to:       %s\n", to.Hex())
	} else {
		fmt.Printf("  to:       (contract creation)\n")
	}
	fmt.Printf("  gas:      %d\n", tx.Gas())
	fmt.Printf("  value:    %s\n", tx.Value())
}

// writeBatch re-encodes the transaction envelopes into a single RLP list
// and writes it to path.
func writeBatch(path string, txs []*types.Transaction) error {
	pool := rlp.NewEncoderPool()
	items := make([]interface{}, len(txs))
	for i, tx := range txs {
		enc, err := tx.EncodeRLP()
		if err != nil {
			return err
		}
		items[i] = enc
	}
	batch, err := pool.EncodeBatch(items)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, batch, 0o644); err != nil {
		return err
	}
	stats := pool.Metrics().Snapshot()
	log.Printf("wrote %d txs (%d bytes) to %s", stats.TotalEncodes, len(batch), path)
	return nil
}
