package live

import (
	"errors"
	"testing"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

type fakeChannel struct {
	closed bool
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeDialer struct {
	dials    int
	failFor  map[string]bool
	channels map[string]*fakeChannel
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{
		failFor:  make(map[string]bool),
		channels: make(map[string]*fakeChannel),
	}
}

func (d *fakeDialer) Dial(unitID string) (Channel, error) {
	d.dials++
	if d.failFor[unitID] {
		return nil, errors.New("dial failed")
	}
	ch := &fakeChannel{}
	d.channels[unitID] = ch
	return ch, nil
}

func TestSubscribeDeduplicates(t *testing.T) {
	d := newFakeDialer()
	m := NewManager(d, nil)

	if err := m.Subscribe("u1"); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := m.Subscribe("u1"); err != nil {
		t.Fatalf("duplicate subscribe errored: %v", err)
	}

	if d.dials != 1 {
		t.Errorf("duplicate subscribe dialed again, dials=%d", d.dials)
	}
	if m.Size() != 1 {
		t.Errorf("registry size changed on duplicate subscribe, size=%d", m.Size())
	}
	if m.State("u1") != StateOpen {
		t.Errorf("expected OPEN, got %s", m.State("u1"))
	}
}

func TestDialFailureLeavesNoSubscription(t *testing.T) {
	d := newFakeDialer()
	d.failFor["u1"] = true
	m := NewManager(d, nil)

	if err := m.Subscribe("u1"); err == nil {
		t.Fatal("expected dial error")
	}
	if m.Size() != 0 {
		t.Errorf("failed subscription left registry entry, size=%d", m.Size())
	}
	if m.State("u1") != StateClosed {
		t.Errorf("expected CLOSED after failure, got %s", m.State("u1"))
	}
}

func TestSyncOpensAndCloses(t *testing.T) {
	d := newFakeDialer()
	m := NewManager(d, nil)

	m.Sync([]string{"u1", "u2"})
	if m.OpenCount() != 2 {
		t.Fatalf("expected 2 open channels, got %d", m.OpenCount())
	}

	// u2 disappears from the known-unit set
	m.Sync([]string{"u1"})
	if m.OpenCount() != 1 {
		t.Errorf("expected 1 open channel after u2 vanished, got %d", m.OpenCount())
	}
	if !d.channels["u2"].closed {
		t.Error("channel for vanished unit was not closed")
	}
	if m.State("u2") != StateClosed {
		t.Errorf("expected CLOSED for vanished unit, got %s", m.State("u2"))
	}

	// Re-syncing an already open unit does not redial
	dialsBefore := d.dials
	m.Sync([]string{"u1"})
	if d.dials != dialsBefore {
		t.Errorf("sync redialed an open subscription")
	}
}

func TestErrorThenSyncReconnects(t *testing.T) {
	d := newFakeDialer()
	m := NewManager(d, nil)

	m.Sync([]string{"u1"})
	ch := d.channels["u1"]

	m.HandleError("u1")
	if !ch.closed {
		t.Error("errored channel was not closed")
	}
	if m.OpenCount() != 0 {
		t.Errorf("expected 0 open after error, got %d", m.OpenCount())
	}

	// No automatic retry: only the next sync re-initiates
	if d.dials != 1 {
		t.Fatalf("manager retried on its own, dials=%d", d.dials)
	}
	m.Sync([]string{"u1"})
	if m.OpenCount() != 1 {
		t.Errorf("sync after error did not reconnect, open=%d", m.OpenCount())
	}
}

func TestOneFailureDoesNotAffectOtherUnits(t *testing.T) {
	d := newFakeDialer()
	d.failFor["u2"] = true
	m := NewManager(d, nil)

	m.Sync([]string{"u1", "u2", "u3"})
	if m.OpenCount() != 2 {
		t.Errorf("expected the two healthy units open, got %d", m.OpenCount())
	}
}

func TestHandleMessageDispatchesOnlyWhenOpen(t *testing.T) {
	d := newFakeDialer()
	var got []string
	m := NewManager(d, func(unitID string, env models.Envelope) {
		got = append(got, unitID)
	})

	env := models.Envelope{Type: models.MessageTypeReadiness}

	m.HandleMessage("u1", env) // not subscribed: dropped
	m.Sync([]string{"u1"})
	m.HandleMessage("u1", env)
	if len(got) != 1 || got[0] != "u1" {
		t.Errorf("expected one dispatched message for u1, got %v", got)
	}
	if m.State("u1") != StateOpen {
		t.Errorf("message handling changed connection state to %s", m.State("u1"))
	}
}
