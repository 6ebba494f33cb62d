package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
	"github.com/tidwall/gjson"
)

const (
	solanaDevnetURL  = "https://api.devnet.solana.com"
	lamportsPerSOL   = 1_000_000_000
	maxRPCResponse   = 1 << 20
	systemTransferIx = 2
)

var ErrInvalidAddress = errors.New("invalid wallet address")

// PublicKey is a 32-byte ed25519 account address.
type PublicKey [32]byte

// SystemProgramID is the all-zero key, "11111111111111111111111111111111".
var SystemProgramID PublicKey

func ParsePublicKey(address string) (PublicKey, error) {
	var key PublicKey
	raw, err := base58.Decode(address)
	if err != nil {
		return key, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("%w: decoded to %d bytes", ErrInvalidAddress, len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

func (k PublicKey) String() string { return base58.Encode(k[:]) }

type AccountMeta struct {
	PublicKey  PublicKey
	IsSigner   bool
	IsWritable bool
}

type Instruction struct {
	ProgramID PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Transaction is an unsigned legacy transaction. It is never submitted.
type Transaction struct {
	FeePayer        PublicKey
	RecentBlockhash string
	Instructions    []Instruction
}

// SystemTransfer encodes the System Program Transfer instruction: a
// little-endian u32 index followed by the u64 lamport amount.
func SystemTransfer(from, to PublicKey, lamports uint64) Instruction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], systemTransferIx)
	binary.LittleEndian.PutUint64(data[4:12], lamports)
	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			{PublicKey: from, IsSigner: true, IsWritable: true},
			{PublicKey: to, IsWritable: true},
		},
		Data: data,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int64
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("solana rpc error %d: %s", e.Code, e.Message)
}

type SolanaClient struct {
	rpcURL     string
	httpClient *http.Client
}

func NewSolanaClient(rpcURL string, timeout time.Duration) *SolanaClient {
	if rpcURL == "" {
		rpcURL = solanaDevnetURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SolanaClient{rpcURL: rpcURL, httpClient: &http.Client{Timeout: timeout}}
}

// Call posts a JSON-RPC request and returns the "result" member.
func (c *SolanaClient) Call(ctx context.Context, method string, params ...interface{}) (gjson.Result, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("execute %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRPCResponse))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%s: http status %d", method, resp.StatusCode)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("%s: malformed response", method)
	}

	parsed := gjson.ParseBytes(raw)
	if rpcErr := parsed.Get("error"); rpcErr.Exists() {
		return gjson.Result{}, &RPCError{Code: rpcErr.Get("code").Int(), Message: rpcErr.Get("message").String()}
	}
	result := parsed.Get("result")
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%s: response has no result", method)
	}
	return result, nil
}

func (c *SolanaClient) LatestBlockhash(ctx context.Context) (string, error) {
	result, err := c.Call(ctx, "getLatestBlockhash", map[string]string{"commitment": "confirmed"})
	if err != nil {
		return "", err
	}
	hash := result.Get("value.blockhash").String()
	if hash == "" {
		return "", errors.New("getLatestBlockhash: missing blockhash")
	}
	return hash, nil
}

// Balance returns the account balance in SOL.
func (c *SolanaClient) Balance(ctx context.Context, key PublicKey) (float64, error) {
	result, err := c.Call(ctx, "getBalance", key.String(), map[string]string{"commitment": "confirmed"})
	if err != nil {
		return 0, err
	}
	lamports := result.Get("value")
	if !lamports.Exists() {
		return 0, errors.New("getBalance: missing value")
	}
	return float64(lamports.Uint()) / lamportsPerSOL, nil
}
