// File: /realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"socialpulse-api/models"
)

const (
	channelPrefix = "socialpulse:events:"
	sendBuffer    = 64
)

// Hub fans post events out to the websocket clients of each user. With a
// redis client every instance receives every event, so a dashboard sees
// updates published by any scheduler runner.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	pubsub  *redis.PubSub
	now     func() time.Time
}

type Client struct {
	UserID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start subscribes to the shared event channels. It is a no-op without redis.
func (h *Hub) Start(ctx context.Context) error {
	if h.redis == nil {
		return nil
	}
	pubsub := h.redis.PSubscribe(ctx, channelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe to events: %w", err)
	}
	h.mu.Lock()
	h.pubsub = pubsub
	h.mu.Unlock()

	go func() {
		for msg := range pubsub.Channel() {
			h.deliver(userIDFromChannel(msg.Channel), []byte(msg.Payload))
		}
	}()
	return nil
}

func (h *Hub) Close() error {
	h.mu.Lock()
	pubsub := h.pubsub
	h.pubsub = nil
	h.mu.Unlock()
	if pubsub == nil {
		return nil
	}
	return pubsub.Close()
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userClients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := userClients[client]; !ok {
		return
	}
	delete(userClients, client)
	if len(userClients) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.Send)
}

// Broadcast sends payload to every client of userID. Once subscribed, events
// travel through redis only so local clients do not receive them twice.
func (h *Hub) Broadcast(ctx context.Context, userID string, payload []byte) {
	h.mu.RLock()
	subscribed := h.pubsub != nil
	h.mu.RUnlock()

	if subscribed {
		err := h.redis.Publish(ctx, channelPrefix+userID, payload).Err()
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("user_id", userID).Msg("Redis publish failed, delivering locally")
	}
	h.deliver(userID, payload)
}

// PostStatusChanged pushes the post's new state to its owner's dashboards.
func (h *Hub) PostStatusChanged(ctx context.Context, post models.Post) {
	payload, err := json.Marshal(models.NewPostStatusEvent(post, h.now()))
	if err != nil {
		log.Error().Err(err).Str("post_id", post.ID).Msg("Failed to encode post event")
		return
	}
	h.Broadcast(ctx, post.UserID, payload)
}

// Connected returns the number of open connections for userID.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) deliver(userID string, payload []byte) {
	if userID == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			// slow consumer, drop
		}
	}
}

func userIDFromChannel(ch string) string {
	if !strings.HasPrefix(ch, channelPrefix) {
		return ""
	}
	return strings.TrimPrefix(ch, channelPrefix)
}
