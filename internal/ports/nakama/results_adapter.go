package nakama

import (
	"context"
	"fmt"

	"cribbage/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Wallet keys updated when a game finishes.
const (
	WalletKeyWins   = "wins"
	WalletKeyLosses = "losses"
	WalletKeySkunks = "skunks"
	WalletKeyPoints = "points"
)

// walletUpdater is the slice of runtime.NakamaModule the results adapter needs.
type walletUpdater interface {
	WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error)
}

// NakamaResultsAdapter implements ports.ResultsPort using Nakama's wallet system
// as a set of lifetime counters.
type NakamaResultsAdapter struct {
	nk walletUpdater
}

// NewNakamaResultsAdapter creates a new results adapter.
func NewNakamaResultsAdapter(nk runtime.NakamaModule) *NakamaResultsAdapter {
	return &NakamaResultsAdapter{nk: nk}
}

// RecordResults applies one wallet change per entry.
func (a *NakamaResultsAdapter) RecordResults(ctx context.Context, results []ports.ResultEntry) error {
	for _, r := range results {
		_, _, err := a.nk.WalletUpdate(ctx, r.UserID, walletChanges(r), r.Metadata, true)
		if err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", r.UserID, err)
		}
	}
	return nil
}

func walletChanges(r ports.ResultEntry) map[string]int64 {
	changes := map[string]int64{WalletKeyPoints: r.Score}
	if r.Won {
		changes[WalletKeyWins] = 1
		return changes
	}
	changes[WalletKeyLosses] = 1
	if r.Skunked {
		changes[WalletKeySkunks] = 1
	}
	return changes
}
