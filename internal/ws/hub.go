package ws

import (
	"encoding/json"
	"sync"

	"petshop_tycoon/internal/logger"
)

// Типы событий сервер -> клиент
const (
	EventLevelUp        = "level_up"
	EventQuestCompleted = "quest_completed"
	EventGiftReceived   = "gift_received"
)

// Event - конверт push-сообщения
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub держит активные соединения по id игрока. У одного игрока может быть
// несколько вкладок, поэтому на id хранится множество клиентов.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// SendToUser доставляет событие во все соединения игрока. Медленные клиенты
// с переполненным буфером пропускают событие, хаб никогда не блокируется.
func (h *Hub) SendToUser(userID int64, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Warn("ws event marshal failed", "type", ev.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// Online возвращает число игроков с активными соединениями
func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
