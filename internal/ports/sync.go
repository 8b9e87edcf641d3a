package ports

import (
	"context"
	"errors"

	"cribbage/internal/snapshot"
)

// ErrNoSnapshot is returned by Receive before anything has been pushed.
var ErrNoSnapshot = errors.New("no snapshot available")

// SyncPort is the room store that carries serialized game state between replicas.
// Push and Receive are not transactionally linked; the last push wins.
type SyncPort interface {
	// Push publishes a snapshot to every subscriber.
	Push(ctx context.Context, snap *snapshot.Snapshot) error

	// Receive returns the most recent snapshot.
	Receive(ctx context.Context) (*snapshot.Snapshot, error)

	// Subscribe delivers every snapshot pushed after the call.
	// The returned func stops delivery and closes the channel.
	Subscribe(ctx context.Context) (<-chan *snapshot.Snapshot, func(), error)
}
