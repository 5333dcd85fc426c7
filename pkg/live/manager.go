package live

import (
	"log"
	"sync"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// SubscriptionState is the lifecycle state of one (client, unit) channel
type SubscriptionState string

const (
	StateConnecting SubscriptionState = "CONNECTING"
	StateOpen       SubscriptionState = "OPEN"
	StateClosed     SubscriptionState = "CLOSED"
)

// Channel is one logical duplex stream carrying readiness updates for a
// single unit
type Channel interface {
	Close() error
}

// Dialer opens a channel for a unit. Implementations dial the transport;
// tests substitute fakes.
type Dialer interface {
	Dial(unitID string) (Channel, error)
}

type subscription struct {
	unitID string
	state  SubscriptionState
	ch     Channel
}

// Manager owns the per-unit subscriptions of one client. It guarantees at
// most one OPEN or CONNECTING channel per unit, closes channels for units
// that disappear, and treats transport failures as local: a failed
// subscription is removed and only re-initiated by the next Sync.
type Manager struct {
	mu        sync.Mutex
	dialer    Dialer
	subs      map[string]*subscription
	onMessage func(unitID string, env models.Envelope)
}

// NewManager creates a manager that dials channels through the given
// dialer and hands incoming readiness updates to onMessage. onMessage may
// be nil if the caller only tracks connection state.
func NewManager(dialer Dialer, onMessage func(unitID string, env models.Envelope)) *Manager {
	return &Manager{
		dialer:    dialer,
		subs:      make(map[string]*subscription),
		onMessage: onMessage,
	}
}

// Subscribe opens a channel for the unit. It is a no-op if an OPEN or
// CONNECTING channel already exists. A dial failure leaves no
// subscription behind and is returned to the caller, who treats it as
// non-fatal.
func (m *Manager) Subscribe(unitID string) error {
	m.mu.Lock()
	if sub, ok := m.subs[unitID]; ok && sub.state != StateClosed {
		m.mu.Unlock()
		return nil
	}
	sub := &subscription{unitID: unitID, state: StateConnecting}
	m.subs[unitID] = sub
	m.mu.Unlock()

	ch, err := m.dialer.Dial(unitID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		delete(m.subs, unitID)
		log.Printf("live: subscription for unit %s failed: %v", unitID, err)
		return err
	}
	// A concurrent Unsubscribe may have removed the entry while dialing
	if m.subs[unitID] != sub {
		ch.Close()
		return nil
	}
	sub.state = StateOpen
	sub.ch = ch
	return nil
}

// Unsubscribe closes the unit's channel if one is OPEN or CONNECTING and
// removes it from the registry
func (m *Manager) Unsubscribe(unitID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(unitID)
}

func (m *Manager) closeLocked(unitID string) {
	sub, ok := m.subs[unitID]
	if !ok {
		return
	}
	if sub.ch != nil {
		sub.ch.Close()
	}
	sub.state = StateClosed
	delete(m.subs, unitID)
}

// Sync reconciles the registry against the currently known units: units
// without a subscription are dialed, subscriptions for vanished units are
// closed. This is also the only reconnection path after a failure.
func (m *Manager) Sync(knownUnits []string) {
	known := make(map[string]bool, len(knownUnits))
	for _, id := range knownUnits {
		known[id] = true
	}

	m.mu.Lock()
	var stale []string
	for id := range m.subs {
		if !known[id] {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		m.closeLocked(id)
	}
	m.mu.Unlock()

	for _, id := range knownUnits {
		// Errors are local to the unit; the next Sync retries
		_ = m.Subscribe(id)
	}
}

// HandleMessage dispatches an incoming readiness update for the unit to
// the application layer. Connection state is unchanged. Messages for
// unknown units are dropped.
func (m *Manager) HandleMessage(unitID string, env models.Envelope) {
	m.mu.Lock()
	sub, ok := m.subs[unitID]
	open := ok && sub.state == StateOpen
	m.mu.Unlock()

	if !open || m.onMessage == nil {
		return
	}
	m.onMessage(unitID, env)
}

// HandleError records a transport failure for the unit: the channel is
// closed and removed. No automatic retry happens; the next Sync
// re-initiates the subscription if the unit is still known.
func (m *Manager) HandleError(unitID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(unitID)
}

// State returns the current state for the unit, or StateClosed if no
// subscription exists
func (m *Manager) State(unitID string) SubscriptionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subs[unitID]; ok {
		return sub.state
	}
	return StateClosed
}

// OpenCount is the number of currently OPEN channels, the "N units live"
// indicator
func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, sub := range m.subs {
		if sub.state == StateOpen {
			n++
		}
	}
	return n
}

// Size is the number of registered subscriptions in any non-closed state
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}
