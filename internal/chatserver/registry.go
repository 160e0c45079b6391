package chatserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaninafuentes/EcoBot/internal/logger"
)

// sessionIDLength is the number of hex characters exposed to clients.
const sessionIDLength = 8

// Record is the metadata the registry keeps for one live session.
type Record struct {
	ID         string
	Number     int
	RemoteAddr string
	Tag        string
	StartedAt  time.Time
	LastSeen   time.Time
	Alive      bool
}

// Handle is held by the owning connection handler. Kill requests close
// the handler's socket (unblocking its read) and close the Done channel.
type Handle struct {
	once      sync.Once
	done      chan struct{}
	closeConn func()
}

// Done is closed once the session has been asked to stop.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) fire() {
	h.once.Do(func() {
		close(h.done)
		if h.closeConn != nil {
			h.closeConn()
		}
	})
}

// Registry is the single source of truth for live sessions. All access
// goes through its mutex; callers only ever see Record snapshots.
type Registry struct {
	mu      sync.Mutex
	seq     int
	records map[string]*Record
	handles map[string]*Handle
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*Record),
		handles: make(map[string]*Handle),
	}
}

// Register allocates a fresh session: a unique short identifier, the next
// sequence number and a control handle. closeConn is invoked from Kill to
// force the handler's blocked read to fail.
func (r *Registry) Register(remoteAddr string, closeConn func()) (string, int, *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newSessionID()
	for _, taken := r.records[id]; taken; _, taken = r.records[id] {
		id = newSessionID()
	}

	r.seq++
	now := time.Now()

	r.records[id] = &Record{
		ID:         id,
		Number:     r.seq,
		RemoteAddr: remoteAddr,
		Tag:        fmt.Sprintf("handler-%d", r.seq),
		StartedAt:  now,
		LastSeen:   now,
		Alive:      true,
	}

	handle := &Handle{done: make(chan struct{}), closeConn: closeConn}
	r.handles[id] = handle

	return id, r.seq, handle
}

// Touch updates the session's last-seen timestamp. A touch racing with a
// kill may find the record gone; that is a no-op.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[id]; ok {
		rec.LastSeen = time.Now()
	}
}

// Get returns a snapshot of one record.
func (r *Registry) Get(id string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// List returns point-in-time copies of every record, ordered by
// registration (sequence number).
func (r *Registry) List() []Record {
	r.mu.Lock()
	records := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, *rec)
	}
	r.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Number < records[j].Number
	})
	return records
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Kill asks the session's handler to stop and reports whether the id was
// found. It signals intent and returns immediately; the handler performs
// the actual teardown and deregistration.
func (r *Registry) Kill(id string) bool {
	r.mu.Lock()
	rec, ok := r.records[id]
	var handle *Handle
	if ok {
		rec.Alive = false
		handle = r.handles[id]
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	logger.Info("Session %s marked for termination", id)
	if handle != nil {
		handle.fire()
	}
	return true
}

// Deregister removes the session. Idempotent: the handler's own cleanup
// and an admin kill may both end up here.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[id]; ok {
		rec.Alive = false
		delete(r.records, id)
		delete(r.handles, id)
	}
}

// newSessionID derives a short, client-friendly token from a random UUID.
func newSessionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:sessionIDLength]
}
