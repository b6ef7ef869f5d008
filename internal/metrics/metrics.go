package metrics

import "sync"

// Counter names. Outbound and inbound event counters are suffixed with the
// event type, e.g. "events_out_partner".
const (
	Connects         = "connects"
	Disconnects      = "disconnects"
	ConnectsRejected = "connects_rejected"
	RateLimited      = "signal_rate_limited"
	BadFrames        = "bad_frames"
	TransitionPanics = "transition_panics"
	MailboxRejected  = "mailbox_rejected"
	eventsOutPrefix  = "events_out_"
	eventsInPrefix   = "events_in_"
)

func EventOut(name string) string { return eventsOutPrefix + name }
func EventIn(name string) string  { return eventsInPrefix + name }

// Metrics is a minimal, concurrency-safe counter registry.
type Metrics struct {
	mu sync.Mutex
	m  map[string]uint64
}

func New() *Metrics {
	return &Metrics{
		m: make(map[string]uint64),
	}
}

// Inc is a no-op on a nil receiver so components can run without metrics.
func (m *Metrics) Inc(name string) {
	m.Add(name, 1)
}

func (m *Metrics) Add(name string, n uint64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.m[name] += n
	m.mu.Unlock()
}

func (m *Metrics) Get(name string) uint64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[name]
}

func (m *Metrics) Snapshot() map[string]uint64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]uint64, len(m.m))
	for k, v := range m.m {
		out[k] = v
	}
	return out
}
