package app

import (
	"context"
	"errors"

	"cribbage/internal/ports"
	"cribbage/internal/snapshot"
)

// ErrSubscriptionClosed is returned when the sync port stops delivering before the joker is resolved.
var ErrSubscriptionClosed = errors.New("snapshot subscription closed")

// WaitForResolution blocks until the room store carries a snapshot with no
// pending substitution and returns it. The latest stored snapshot is checked
// first so a resolution that already happened is not missed.
func WaitForResolution(ctx context.Context, port ports.SyncPort) (*snapshot.Snapshot, error) {
	updates, cancel, err := port.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	latest, err := port.Receive(ctx)
	switch {
	case err == nil && !latest.PendingSubstitution:
		return latest, nil
	case err != nil && !errors.Is(err, ports.ErrNoSnapshot):
		return nil, err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				return nil, ErrSubscriptionClosed
			}
			if !snap.PendingSubstitution {
				return snap, nil
			}
		}
	}
}
