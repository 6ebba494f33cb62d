package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anjiri1684/studydao/metrics"
	"github.com/rs/zerolog/log"
)

const defaultMintLabel = "General Learning"

type MintRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required"`
	CourseName    string `json:"course_name"`
	Topic         string `json:"topic"`
}

// Label picks the course name, then the topic, then a generic fallback.
func (r MintRequest) Label() string {
	if s := strings.TrimSpace(r.CourseName); s != "" {
		return s
	}
	if s := strings.TrimSpace(r.Topic); s != "" {
		return s
	}
	return defaultMintLabel
}

type MintResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	MintAddress string `json:"mint_address"`
}

type BlockhashSource interface {
	LatestBlockhash(ctx context.Context) (string, error)
}

// Minter prepares a zero-lamport self-transfer so the wallet and cluster
// are exercised. Nothing is signed or submitted and the wallet address is
// reported back as the mint address.
type Minter struct {
	rpc BlockhashSource
}

func NewMinter(rpc BlockhashSource) *Minter {
	return &Minter{rpc: rpc}
}

func (m *Minter) Prepare(ctx context.Context, walletAddress string) (*Transaction, error) {
	wallet, err := ParsePublicKey(strings.TrimSpace(walletAddress))
	if err != nil {
		return nil, err
	}

	tx := &Transaction{Instructions: []Instruction{SystemTransfer(wallet, wallet, 0)}}

	blockhash, err := m.rpc.LatestBlockhash(ctx)
	if err != nil {
		return nil, &ProviderError{Provider: "solana", Err: fmt.Errorf("fetch blockhash: %w", err)}
	}
	tx.RecentBlockhash = blockhash
	tx.FeePayer = wallet
	return tx, nil
}

func (m *Minter) Mint(ctx context.Context, req MintRequest) (result *MintResult, err error) {
	defer func() { metrics.Mints.WithLabelValues(metrics.Outcome(err)).Inc() }()

	tx, err := m.Prepare(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}

	label := req.Label()
	log.Info().
		Str("wallet", tx.FeePayer.String()).
		Str("blockhash", tx.RecentBlockhash).
		Str("label", label).
		Msg("🎖️ badge mint prepared")

	return &MintResult{
		Success:     true,
		Message:     fmt.Sprintf("NFT minted for %s!", label),
		MintAddress: tx.FeePayer.String(),
	}, nil
}
