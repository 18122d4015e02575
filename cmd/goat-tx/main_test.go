package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/goatnetwork/goat-consensus/core"
	"github.com/goatnetwork/goat-consensus/core/types"
)

// goatTxHex builds a bridge deposit transaction and returns its canonical
// typed encoding as a hex string.
func goatTxHex(t *testing.T) string {
	t.Helper()
	payload, err := hex.DecodeString(
		"904183cb15bb90fa63b9a92e31d31f8d8d30bf8da9d9a21314c65dd517f27740ae676d6e" +
			"000000000000000000000000000000000000000000000000000000002a71a778" +
			"0000000000000000000000005e4e4d79f08120352f04d638adec7d3892b28045" +
			"00000000000000000000000000000000000000000000000000000000157f7f97" +
			"0000000000000000000000000000000000000000000000000000000000000064")
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	inner, err := types.NewGoatTx(types.GoatModuleBridge, types.BridgeActionDeposit, 5, payload, types.GoatChainID)
	if err != nil {
		t.Fatalf("NewGoatTx: %v", err)
	}
	enc, err := types.NewTransaction(inner).EncodeRLP()
	if err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	return hex.EncodeToString(enc)
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, rest, exit, code := parseFlags([]string{})
	if exit {
		t.Fatalf("unexpected exit with code %d", code)
	}
	if cfg.Network != "mainnet" {
		t.Errorf("Network = %q, want mainnet", cfg.Network)
	}
	if cfg.ChainID != 0 {
		t.Errorf("ChainID = %d, want 0", cfg.ChainID)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
	if cfg.Out != "" {
		t.Errorf("Out = %q, want empty", cfg.Out)
	}
	if cfg.JSON {
		t.Error("JSON should be false by default")
	}
	if len(rest) != 0 {
		t.Errorf("rest = %v, want empty", rest)
	}
}

func TestParseFlags_AllFlags(t *testing.T) {
	args := []string{
		"-network", "testnet",
		"-chainid", "48816",
		"-file", "txs.txt",
		"-out", "batch.rlp",
		"-json",
		"60c0",
	}

	cfg, rest, exit, _ := parseFlags(args)
	if exit {
		t.Fatal("unexpected exit")
	}
	if cfg.Network != "testnet" {
		t.Errorf("Network = %q, want testnet", cfg.Network)
	}
	if cfg.ChainID != 48816 {
		t.Errorf("ChainID = %d, want 48816", cfg.ChainID)
	}
	if cfg.File != "txs.txt" {
		t.Errorf("File = %q, want txs.txt", cfg.File)
	}
	if cfg.Out != "batch.rlp" {
		t.Errorf("Out = %q, want batch.rlp", cfg.Out)
	}
	if !cfg.JSON {
		t.Error("JSON should be true")
	}
	if len(rest) != 1 || rest[0] != "60c0" {
		t.Errorf("rest = %v, want [60c0]", rest)
	}
}

func TestParseFlags_HexChainID(t *testing.T) {
	// The chainid flag accepts 0x-hex; 0xbeb0 is the testnet id 48816.
	cfg, _, exit, _ := parseFlags([]string{"--chainid", "0xbeb0"})
	if exit {
		t.Fatal("unexpected exit")
	}
	if cfg.ChainID != 48816 {
		t.Errorf("ChainID = %d, want 48816", cfg.ChainID)
	}
}

func TestParseFlags_Version(t *testing.T) {
	_, _, exit, code := parseFlags([]string{"-version"})
	if !exit {
		t.Fatal("expected exit for -version")
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestParseFlags_InvalidFlag(t *testing.T) {
	_, _, exit, code := parseFlags([]string{"-unknown-flag"})
	if !exit {
		t.Fatal("expected exit for unknown flag")
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestParseFlags_InvalidChainID(t *testing.T) {
	_, _, exit, code := parseFlags([]string{"-chainid", "notanumber"})
	if !exit {
		t.Fatal("expected exit for invalid chainid")
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestChainConfigSelection(t *testing.T) {
	tests := []struct {
		network string
		wantID  uint64
	}{
		{"mainnet", types.GoatChainID},
		{"testnet", types.GoatTestnetChainID},
	}
	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			cfg := config{Network: tt.network}
			cc, err := cfg.chainConfig()
			if err != nil {
				t.Fatalf("chainConfig(%q) error: %v", tt.network, err)
			}
			if cc.ChainID.Uint64() != tt.wantID {
				t.Errorf("ChainID = %d, want %d", cc.ChainID.Uint64(), tt.wantID)
			}
		})
	}
}

func TestChainConfigUnknownNetwork(t *testing.T) {
	cfg := config{Network: "nonet"}
	if _, err := cfg.chainConfig(); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestChainConfigOverride(t *testing.T) {
	cfg := config{Network: "mainnet", ChainID: 777}
	cc, err := cfg.chainConfig()
	if err != nil {
		t.Fatalf("chainConfig error: %v", err)
	}
	if cc.ChainID.Uint64() != 777 {
		t.Errorf("ChainID = %d, want 777", cc.ChainID.Uint64())
	}
	if cc.IsGoatNetwork() {
		t.Error("777 must not be reported as a goat network")
	}
	// The override must not touch the shared preset.
	if got := core.GoatMainnetConfig.ChainID.Uint64(); got != types.GoatChainID {
		t.Fatalf("mainnet preset chain id mutated: %d", got)
	}
}

func TestGatherInputs_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "txs.txt")
	content := "# fixture txs\n\n60c0\n  60c1  \n"
	os.WriteFile(path, []byte(content), 0644)

	inputs, err := gatherInputs(config{File: path}, nil)
	if err != nil {
		t.Fatalf("gatherInputs error: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2: %v", len(inputs), inputs)
	}
	if inputs[0] != "60c0" || inputs[1] != "60c1" {
		t.Errorf("inputs = %v, want [60c0 60c1]", inputs)
	}
}

func TestGatherInputs_ArgsBeforeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "txs.txt")
	os.WriteFile(path, []byte("bbbb\n"), 0644)

	inputs, err := gatherInputs(config{File: path}, []string{"aaaa"})
	if err != nil {
		t.Fatalf("gatherInputs error: %v", err)
	}
	if len(inputs) != 2 || inputs[0] != "aaaa" || inputs[1] != "bbbb" {
		t.Errorf("inputs = %v, want [aaaa bbbb]", inputs)
	}
}

func TestGatherInputs_MissingFile(t *testing.T) {
	_, err := gatherInputs(config{File: "/nonexistent/txs.txt"}, nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeOne(t *testing.T) {
	raw := goatTxHex(t)

	tx, err := decodeOne(raw, types.GoatTestnetChainID)
	if err != nil {
		t.Fatalf("decodeOne: %v", err)
	}
	if !tx.IsGoat() {
		t.Fatal("decoded tx is not goat")
	}
	if tx.ChainId().Uint64() != types.GoatTestnetChainID {
		t.Errorf("ChainId = %d, want %d", tx.ChainId().Uint64(), types.GoatTestnetChainID)
	}
	if tx.Nonce() != 5 {
		t.Errorf("Nonce = %d, want 5", tx.Nonce())
	}

	// 0x prefix is tolerated.
	tx2, err := decodeOne("0x"+raw, types.GoatChainID)
	if err != nil {
		t.Fatalf("decodeOne with prefix: %v", err)
	}
	if tx2.Hash() != tx.Hash() {
		t.Errorf("hash mismatch: %v vs %v", tx2.Hash(), tx.Hash())
	}
}

func TestDecodeOneInvalidHex(t *testing.T) {
	if _, err := decodeOne("zz", types.GoatChainID); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

func TestRun_Version(t *testing.T) {
	if code := run([]string{"-version"}); code != 0 {
		t.Errorf("run(-version) = %d, want 0", code)
	}
}

func TestRun_UnknownNetwork(t *testing.T) {
	if code := run([]string{"-network", "nonet", "60c0"}); code != 2 {
		t.Errorf("run = %d, want 2", code)
	}
}

func TestRun_InvalidTx(t *testing.T) {
	if code := run([]string{"zz"}); code != 1 {
		t.Errorf("run = %d, want 1", code)
	}
}

func TestRun_SummaryAndBatch(t *testing.T) {
	out := filepath.Join(t.TempDir(), "batch.rlp")
	raw := goatTxHex(t)

	if code := run([]string{"-network", "testnet", "-out", out, raw}); code != 0 {
		t.Fatalf("run = %d, want 0", code)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("batch file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("batch file is empty")
	}
}

func TestRun_JSONFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "txs.txt")
	os.WriteFile(path, []byte(goatTxHex(t)+"\n"), 0644)

	if code := run([]string{"-json", "-file", path}); code != 0 {
		t.Errorf("run = %d, want 0", code)
	}
}
