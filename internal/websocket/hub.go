package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/metrics"
	"github.com/yourusername/trivia-backend/internal/service"
)

const broadcastBufferSize = 256

// Hub рассылает события о новых результатах всем подключённым клиентам.
// Все изменения набора клиентов происходят в горутине Run.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub создает хаб; рассылка начинается после запуска Run
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBufferSize),
		done:       make(chan struct{}),
	}
}

// Run обслуживает хаб до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				h.remove(client)
			}
			log.Printf("[LiveFeed] Hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			metrics.LiveFeedClients.Set(float64(len(h.clients)))
			log.Printf("[LiveFeed] Client connected (ConnID: %s), total=%d", client.ConnectionID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				log.Printf("[LiveFeed] Client disconnected (ConnID: %s), total=%d", client.ConnectionID, len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Медленный клиент: отключаем, чтобы не тормозить остальных
					metrics.LiveFeedDropped.Inc()
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	metrics.LiveFeedClients.Set(float64(len(h.clients)))
}

// PublishScore отправляет событие SCORE_SUBMITTED. Не блокирует вызывающего.
func (h *Hub) PublishScore(score *entity.Score) {
	if score == nil {
		return
	}

	data, err := json.Marshal(Message{
		Type: SCORE_SUBMITTED,
		Data: ScoreEvent{
			ID:             score.ID,
			Username:       service.DisplayName(*score),
			NormalScore:    service.NormalValue(*score),
			TrivialerScore: service.TrivialerValue(*score),
			Score:          score.Score,
			Category:       score.Category,
			Date:           score.Date.UTC().Format("2006-01-02T15:04:05"),
		},
	})
	if err != nil {
		log.Printf("[LiveFeed] Failed to marshal score %d: %v", score.ID, err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		metrics.LiveFeedDropped.Inc()
		log.Printf("[LiveFeed] Broadcast buffer full, score %d not published", score.ID)
	}
}
