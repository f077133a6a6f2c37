package ws

import (
	"encoding/json"
	"testing"
)

func TestHubSendToUser(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1), hub: hub}
	hub.register(c)

	hub.SendToUser(1, Event{Type: EventLevelUp, Payload: map[string]int{"level": 2}})

	select {
	case data := <-c.Send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != EventLevelUp {
			t.Fatalf("expected %q, got %q", EventLevelUp, ev.Type)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestHubSendToUnknownUser(t *testing.T) {
	hub := NewHub()
	// не должно паниковать и блокироваться
	hub.SendToUser(99, Event{Type: EventGiftReceived})
}

func TestHubSlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte), hub: hub} // без буфера, никто не читает
	hub.register(c)

	// отправка неблокирующая: переполненный клиент просто пропускает событие
	hub.SendToUser(1, Event{Type: EventQuestCompleted})
}

func TestHubOnline(t *testing.T) {
	hub := NewHub()
	a := &Client{UserID: 1, Send: make(chan []byte, 1), hub: hub}
	b := &Client{UserID: 1, Send: make(chan []byte, 1), hub: hub}
	c := &Client{UserID: 2, Send: make(chan []byte, 1), hub: hub}

	hub.register(a)
	hub.register(b)
	hub.register(c)

	if got := hub.Online(); got != 2 {
		t.Fatalf("expected 2 online, got %d", got)
	}

	hub.unregister(a)
	if got := hub.Online(); got != 2 {
		t.Fatalf("second tab still open, expected 2, got %d", got)
	}

	hub.unregister(b)
	if got := hub.Online(); got != 1 {
		t.Fatalf("expected 1 online, got %d", got)
	}
}
