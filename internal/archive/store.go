// Package archive is the best-effort write-behind store for chat, poll,
// question and file-share records (SPEC_FULL.md §6.1). It is never read
// from the signaling hot path and its failures never block a handler.
package archive

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

// errQueueFull marks a write dropped because the archive's bounded queue
// was at capacity, not because the write itself failed.
var errQueueFull = errors.New("archive queue full")

// Store persists archival records. Implementations must not block the
// caller for longer than it takes to enqueue the write.
type Store interface {
	SaveChatMessage(ctx context.Context, msg domain.ChatMessage)
	SavePollRecord(ctx context.Context, roomID string, record map[string]any)
	SaveQuestionRecord(ctx context.Context, roomID string, record map[string]any)
	SaveFileRecord(ctx context.Context, roomID string, record map[string]any)
	Close()
}

// Noop discards every write; used when archival is disabled.
type Noop struct{}

func (Noop) SaveChatMessage(context.Context, domain.ChatMessage)         {}
func (Noop) SavePollRecord(context.Context, string, map[string]any)      {}
func (Noop) SaveQuestionRecord(context.Context, string, map[string]any)  {}
func (Noop) SaveFileRecord(context.Context, string, map[string]any)      {}
func (Noop) Close()                                                     {}

var _ Store = Noop{}

func logDropped(kind string, err error) {
	slog.Warn("archive write dropped", "kind", kind, "err", err)
}
