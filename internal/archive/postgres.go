package archive

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cwrk-planet/signal-hub/internal/domain"
)

const queueDepth = 512

type job struct {
	kind   string
	roomID string
	chat   domain.ChatMessage
	record map[string]any
}

// Postgres is the write-behind archive store backed by pgx, grounded on
// the teacher's chat_repo.go. All writes are queued on a bounded channel
// and drained by a single background goroutine; a full queue drops the
// oldest-pending write to make room for the newest one, rather than
// blocking the event router or losing the write that just happened.
type Postgres struct {
	pool  *pgxpool.Pool
	queue chan job
	done  chan struct{}
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	p := &Postgres{
		pool:  pool,
		queue: make(chan job, queueDepth),
		done:  make(chan struct{}),
	}
	go p.run()
	return p, nil
}

func (p *Postgres) enqueue(j job) {
	select {
	case p.queue <- j:
		return
	default:
	}

	// Queue full: make room by dropping the oldest pending write, then
	// enqueue the new one. If a concurrent drain won the race for that
	// freed slot, fall back to dropping this write instead of blocking.
	select {
	case old := <-p.queue:
		logDropped(old.kind, errQueueFull)
	default:
	}
	select {
	case p.queue <- j:
	default:
		logDropped(j.kind, errQueueFull)
	}
}

func (p *Postgres) SaveChatMessage(_ context.Context, msg domain.ChatMessage) {
	p.enqueue(job{kind: "chat", roomID: msg.RoomID, chat: msg})
}

func (p *Postgres) SavePollRecord(_ context.Context, roomID string, record map[string]any) {
	p.enqueue(job{kind: "poll", roomID: roomID, record: record})
}

func (p *Postgres) SaveQuestionRecord(_ context.Context, roomID string, record map[string]any) {
	p.enqueue(job{kind: "question", roomID: roomID, record: record})
}

func (p *Postgres) SaveFileRecord(_ context.Context, roomID string, record map[string]any) {
	p.enqueue(job{kind: "file", roomID: roomID, record: record})
}

func (p *Postgres) run() {
	defer close(p.done)
	for j := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		p.writeOne(ctx, j)
		cancel()
	}
}

func (p *Postgres) writeOne(ctx context.Context, j job) {
	var err error
	switch j.kind {
	case "chat":
		_, err = p.pool.Exec(ctx, `
			INSERT INTO room_messages (id, room_id, user_id, text, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT DO NOTHING`,
			j.chat.ID, j.chat.RoomID, j.chat.UserID, j.chat.Text, j.chat.CreatedAt)
	case "poll":
		_, err = p.pool.Exec(ctx, `
			INSERT INTO room_polls (room_id, record) VALUES ($1, $2)`,
			j.roomID, j.record)
	case "question":
		_, err = p.pool.Exec(ctx, `
			INSERT INTO room_questions (room_id, record) VALUES ($1, $2)`,
			j.roomID, j.record)
	case "file":
		_, err = p.pool.Exec(ctx, `
			INSERT INTO room_files (room_id, record) VALUES ($1, $2)`,
			j.roomID, j.record)
	}
	if err != nil {
		logDropped(j.kind, err)
	}
}

// Close drains the queue and releases the pool. It does not block the
// caller indefinitely — it is only invoked once during graceful shutdown.
func (p *Postgres) Close() {
	close(p.queue)
	<-p.done
	p.pool.Close()
}

var _ Store = (*Postgres)(nil)
