// Package audit writes system-audit rows without ever blocking or failing
// the business operation that produced them. Entries go through a buffered
// channel drained by a single goroutine; on a full buffer or a write error
// the entry is dropped and the loss is logged. At-most-once by design:
// losing an audit row is preferable to losing the business transaction.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tfd-service/internal/model"
)

type Entry struct {
	UsuarioID  *uuid.UUID
	Acao       model.AcaoLog
	Entidade   string
	EntidadeID *uuid.UUID
	Detalhes   string
	IP         string
}

type Recorder struct {
	db      *gorm.DB
	log     zerolog.Logger
	entries chan Entry
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewRecorder(db *gorm.DB, log zerolog.Logger, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &Recorder{
		db:      db,
		log:     log,
		entries: make(chan Entry, buffer),
		done:    make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record enqueues the entry; it never blocks. When the buffer is full, or
// the recorder is already closed, the entry is dropped.
func (r *Recorder) Record(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.log.Warn().
			Str("entidade", entry.Entidade).
			Str("acao", string(entry.Acao)).
			Msg("audit recorder closed, entry dropped")
		return
	}
	select {
	case r.entries <- entry:
	default:
		r.log.Warn().
			Str("entidade", entry.Entidade).
			Str("acao", string(entry.Acao)).
			Msg("audit buffer full, entry dropped")
	}
}

// Close stops accepting entries and waits for the buffer to flush.
// Safe to call more than once.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.entries)
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) drain() {
	defer close(r.done)
	for entry := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		row := model.Log{
			UsuarioID:  entry.UsuarioID,
			Acao:       entry.Acao,
			Entidade:   entry.Entidade,
			EntidadeID: entry.EntidadeID,
			Detalhes:   entry.Detalhes,
			IP:         entry.IP,
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			r.log.Error().Err(err).
				Str("entidade", entry.Entidade).
				Msg("failed to persist audit entry")
		}
		cancel()
	}
}
