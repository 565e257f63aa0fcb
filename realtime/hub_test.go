package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestHub() *Hub {
	return NewHub(2, time.Second, time.Second, time.Second)
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := newTestHub()

	a := NewClient("c1", "user-1", "phone", nil, hub)
	b := NewClient("c2", "user-1", "laptop", nil, hub)
	other := NewClient("c3", "user-2", "phone", nil, hub)
	hub.registerClient(a)
	hub.registerClient(b)
	hub.registerClient(other)

	if got := hub.UserConnections("user-1"); got != 2 {
		t.Fatalf("UserConnections(user-1) = %d, want 2", got)
	}

	msg, err := NewMessage(TypeSnapshot, &SnapshotPayload{})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if err := hub.BroadcastToUser("user-1", msg, ""); err != nil {
		t.Fatalf("BroadcastToUser: %v", err)
	}

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var got Message
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("unmarshal broadcast: %v", err)
			}
			if got.Type != TypeSnapshot {
				t.Errorf("client %s got type %q, want %q", c.ID, got.Type, TypeSnapshot)
			}
		default:
			t.Errorf("client %s received nothing", c.ID)
		}
	}

	select {
	case <-other.Send:
		t.Error("broadcast leaked to another user")
	default:
	}
}

func TestHubBroadcastExcludesOriginDevice(t *testing.T) {
	hub := newTestHub()

	phone := NewClient("c1", "user-1", "phone", nil, hub)
	laptop := NewClient("c2", "user-1", "laptop", nil, hub)
	hub.registerClient(phone)
	hub.registerClient(laptop)

	msg, _ := NewMessage(TypePong, nil)
	if err := hub.BroadcastToUser("user-1", msg, "phone"); err != nil {
		t.Fatalf("BroadcastToUser: %v", err)
	}

	select {
	case <-phone.Send:
		t.Error("excluded device received broadcast")
	default:
	}

	select {
	case <-laptop.Send:
	default:
		t.Error("other device received nothing")
	}
}

func TestHubConnectionLimit(t *testing.T) {
	hub := newTestHub()

	for i, id := range []string{"c1", "c2", "c3"} {
		c := NewClient(id, "user-1", "dev", nil, hub)
		hub.registerClient(c)
		if i < 2 {
			continue
		}
		// Third connection is refused and its channel closed
		if _, open := <-c.Send; open {
			t.Error("over-limit client was not closed")
		}
	}

	if got := hub.UserConnections("user-1"); got != 2 {
		t.Errorf("UserConnections = %d, want 2", got)
	}
}

func TestHubUnregister(t *testing.T) {
	hub := newTestHub()

	c := NewClient("c1", "user-1", "phone", nil, hub)
	hub.registerClient(c)
	hub.unregisterClient(c)

	if got := hub.UserConnections("user-1"); got != 0 {
		t.Errorf("UserConnections = %d, want 0", got)
	}
	if _, open := <-c.Send; open {
		t.Error("send channel still open after unregister")
	}
	if users := hub.ConnectedUsers(); len(users) != 0 {
		t.Errorf("ConnectedUsers = %v, want empty", users)
	}
}

func TestMessagePayloadRoundTrip(t *testing.T) {
	msg, err := NewMessage(TypeSnapshot, &SnapshotPayload{})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	var payload SnapshotPayload
	if err := msg.UnmarshalPayload(&payload); err != nil {
		t.Fatalf("UnmarshalPayload: %v", err)
	}
	if payload.Notes != nil && len(payload.Notes) != 0 {
		t.Errorf("unexpected notes: %v", payload.Notes)
	}
}
