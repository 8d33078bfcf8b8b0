// Command tinyevm is the engine's external driver (spec.md §6): it
// reads a JSON call message plus a JSON genesis-style account dump,
// executes the message against an in-memory state, and prints the
// resulting ExecutionOutcome as JSON to stdout.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"

	tlog "github.com/blocklayer/tinyevm/log"
	"github.com/blocklayer/tinyevm/oracle"
	"github.com/blocklayer/tinyevm/state"
	"github.com/blocklayer/tinyevm/types"
	"github.com/blocklayer/tinyevm/vm"
	"github.com/holiman/uint256"
)

// inputAccount is one entry of the genesis-style account dump.
type inputAccount struct {
	Balance string            `json:"balance"`
	Nonce   uint64            `json:"nonce"`
	Code    string            `json:"code"`
	Storage map[string]string `json:"storage"`
}

// inputMessage is the call message the engine executes.
type inputMessage struct {
	Origin     string   `json:"origin"`
	Sender     string   `json:"sender"`
	To         string   `json:"to"`
	Value      string   `json:"value"`
	GasPrice   string   `json:"gasPrice"`
	Gas        uint64   `json:"gas"`
	Data       string   `json:"data"`
	Code       string   `json:"code"`
	BlobHashes []string `json:"blobHashes"`
}

// inputBlock carries the block-context values BLOCKHASH/COINBASE/...
// read, plus an optional JSON-RPC endpoint that, when set, answers
// every ancestor hash lookup.
type inputBlock struct {
	Coinbase      string `json:"coinbase"`
	Timestamp     uint64 `json:"timestamp"`
	Number        uint64 `json:"number"`
	PrevRandao    string `json:"prevRandao"`
	GasLimit      uint64 `json:"gasLimit"`
	BaseFee       string `json:"baseFee"`
	ExcessBlobGas uint64 `json:"excessBlobGas"`
	ChainID       string `json:"chainId"`
	RPCEndpoint   string `json:"rpcEndpoint"`
}

type inputDocument struct {
	Accounts map[string]inputAccount `json:"accounts"`
	Message  inputMessage            `json:"message"`
	Block    inputBlock              `json:"block"`
}

type outputLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

type outputDocument struct {
	Output                    string            `json:"output"`
	Reverted                  bool              `json:"reverted"`
	Error                     string            `json:"error,omitempty"`
	Logs                      []outputLog       `json:"logs"`
	DeletedAccounts           []string          `json:"deletedAccounts"`
	SelfDestructBeneficiaries map[string]string `json:"selfDestructBeneficiaries"`
}

func main() {
	logFormat := flag.String("log-format", "json", "log output format: json, text, or color")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	maxCallDepth := flag.Int("max-call-depth", 0, "override the default 1024-frame call depth limit (0 = default)")
	trace := flag.Bool("trace", false, "log every executed opcode at debug level")
	flag.Parse()

	configureLogging(*logFormat, *logLevel)
	logger := tlog.Default().Module("cmd/tinyevm")

	doc, err := readInput()
	if err != nil {
		logger.Error("failed to read input", "err", err)
		os.Exit(1)
	}

	outcome := run(doc, logger, *maxCallDepth, *trace)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toOutputDocument(outcome)); err != nil {
		logger.Error("failed to encode output", "err", err)
		os.Exit(1)
	}
	if outcome.Reverted {
		os.Exit(1)
	}
}

func configureLogging(format, level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	switch format {
	case "text":
		tlog.SetDefault(tlog.NewWithFormatter(lvl, &tlog.TextFormatter{}, os.Stderr))
	case "color":
		tlog.SetDefault(tlog.NewWithFormatter(lvl, &tlog.ColorFormatter{}, os.Stderr))
	default:
		tlog.SetDefault(tlog.New(lvl))
	}
}

func readInput() (*inputDocument, error) {
	var doc inputDocument
	dec := json.NewDecoder(os.Stdin)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return &doc, nil
}

func run(doc *inputDocument, logger *tlog.Logger, maxCallDepth int, trace bool) *vm.ExecutionOutcome {
	block := state.BlockContext{
		Coinbase:      hexAddress(doc.Block.Coinbase),
		Timestamp:     doc.Block.Timestamp,
		Number:        doc.Block.Number,
		PrevRandao:    hexHash(doc.Block.PrevRandao),
		GasLimit:      doc.Block.GasLimit,
		BaseFee:       hexBig(doc.Block.BaseFee),
		ExcessBlobGas: doc.Block.ExcessBlobGas,
		ChainID:       hexBig(doc.Block.ChainID),
	}

	var anc state.AncestorHashOracle
	if doc.Block.RPCEndpoint != "" {
		anc = oracle.NewJSONRPC(doc.Block.RPCEndpoint, nil)
	} else {
		anc = oracle.NewFixed(nil)
	}

	st := state.New(anc, block)
	for addrHex, acct := range doc.Accounts {
		addr := hexAddress(addrHex)
		st.SetBalance(addr, hexBig(acct.Balance))
		st.SetNonce(addr, acct.Nonce)
		if acct.Code != "" {
			st.SetCode(addr, hexBytes(acct.Code))
		}
		for slotHex, valHex := range acct.Storage {
			st.Storage.Set(addr, hexWord(slotHex), hexWord(valHex))
		}
	}

	msg := doc.Message
	blobHashes := make([]types.Hash, len(msg.BlobHashes))
	for i, h := range msg.BlobHashes {
		blobHashes[i] = hexHash(h)
	}

	sender := hexAddress(msg.Sender)
	to := hexAddress(msg.To)
	code := hexBytes(msg.Code)
	if !to.IsZero() && len(code) == 0 {
		code = st.GetCode(to)
	}

	logger.Info("executing message", "sender", sender.Hex(), "to", to.Hex(), "gas", msg.Gas)

	var opts []vm.Option
	if maxCallDepth > 0 {
		opts = append(opts, vm.WithMaxCallDepth(maxCallDepth))
	}
	var tracer *vm.StructLogTracer
	if trace {
		tracer = vm.NewStructLogTracer()
		opts = append(opts, vm.WithTracer(tracer))
	}
	cfg := vm.NewConfig(opts...)

	outcome := vm.ExecuteBytecodeWithConfig(
		st,
		hexAddress(msg.Origin),
		hexBig(msg.GasPrice),
		blobHashes,
		msg.Gas,
		to,
		sender,
		hexBig(msg.Value),
		hexBytes(msg.Data),
		code,
		types.Address{},
		cfg,
	)

	if tracer != nil {
		for _, step := range tracer.Logs {
			logger.Debug("trace step", "pc", step.PC, "op", step.Op.String(), "depth", step.Depth, "err", step.Err)
		}
	}
	if outcome.Reverted {
		logger.Warn("execution reverted", "err", outcome.Error)
	}
	return outcome
}

func toOutputDocument(o *vm.ExecutionOutcome) outputDocument {
	out := outputDocument{
		Output:                    hexEncode(o.Output),
		Reverted:                  o.Reverted,
		DeletedAccounts:           make([]string, 0, len(o.DeletedAccounts)),
		SelfDestructBeneficiaries: make(map[string]string, len(o.SelfDestructBeneficiaries)),
		Logs:                      make([]outputLog, 0, len(o.Logs)),
	}
	if o.Error != nil {
		out.Error = o.Error.Error()
	}
	for _, addr := range o.DeletedAccounts {
		out.DeletedAccounts = append(out.DeletedAccounts, addr.Hex())
	}
	for addr, ben := range o.SelfDestructBeneficiaries {
		out.SelfDestructBeneficiaries[addr.Hex()] = ben.Hex()
	}
	for _, l := range o.Logs {
		topics := make([]string, len(l.Topics))
		for i := range l.Topics {
			b := l.Topics[i].Bytes32()
			topics[i] = "0x" + hex.EncodeToString(b[:])
		}
		out.Logs = append(out.Logs, outputLog{
			Address: l.Address.Hex(),
			Topics:  topics,
			Data:    hexEncode(l.Data),
		})
	}
	return out
}

func hexEncode(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func hexAddress(s string) types.Address {
	if s == "" {
		return types.Address{}
	}
	return types.HexToAddress(s)
}

func hexHash(s string) types.Hash {
	if s == "" {
		return types.Hash{}
	}
	return types.HexToHash(s)
}

func hexBytes(s string) []byte {
	if s == "" {
		return nil
	}
	trimmed := s
	if len(trimmed) >= 2 && trimmed[0] == '0' && (trimmed[1] == 'x' || trimmed[1] == 'X') {
		trimmed = trimmed[2:]
	}
	if len(trimmed)%2 == 1 {
		trimmed = "0" + trimmed
	}
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil
	}
	return b
}

func hexBig(s string) *big.Int {
	if s == "" {
		return new(big.Int)
	}
	n := new(big.Int)
	n.SetString(trimHex(s), 16)
	return n
}

func trimHex(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func hexWord(s string) uint256.Int {
	var w uint256.Int
	w.SetFromBig(hexBig(s))
	return w
}
