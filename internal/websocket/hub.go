package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	hubModule      = "Hub"
	clusterChannel = "cluster_events"
)

// Hub keeps the open connections of this instance and relays pushes between instances over Redis.
type Hub struct {
	// UserID -> connections, one per device
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// nil runs the hub standalone
	rdb *redis.Client
	// instanceId tags outgoing cluster messages so an instance skips its own
	instanceId string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

// Run blocks until ctx is cancelled, then closes every connection's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.clients {
				for _, c := range clients {
					close(c.Send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info(hubModule, "Client registered", map[string]interface{}{"user_id": client.UserID.String()})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// remove is a no-op for clients that are already gone, so Send is closed exactly once.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c != client {
			continue
		}
		h.clients[client.UserID] = append(clients[:i:i], clients[i+1:]...)
		close(client.Send)
		break
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info(hubModule, "Client completely unregistered", map[string]interface{}{"user_id": client.UserID.String()})
	}
}

func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Send pushes a notification to every local connection of the user and publishes it for the other instances.
func (h *Hub) Send(userID uuid.UUID, notification dto.NotificationDTO) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	if err != nil {
		h.logger.Error(hubModule, "Failed to encode notification", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(userID, data)

	if h.rdb == nil {
		return
	}
	payload, err := h.encodeClusterMessage(userID, data)
	if err != nil {
		h.logger.Error(hubModule, "Failed to encode cluster message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn(hubModule, "Failed to publish to cluster", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) encodeClusterMessage(userID uuid.UUID, data []byte) ([]byte, error) {
	return json.Marshal(clusterMessage{Origin: h.instanceId, TargetUserID: userID.String(), Message: data})
}

// deliverLocal sends under the read lock so no channel is closed mid-send. Slow clients are removed afterwards.
func (h *Hub) deliverLocal(userID uuid.UUID, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn(hubModule, "Client Send buffer full, dropping connection", map[string]interface{}{"user_id": userID.String()})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn(hubModule, "Redis msg parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instanceId {
		return
	}
	uid, err := uuid.Parse(payload.TargetUserID)
	if err != nil {
		return
	}
	h.deliverLocal(uid, payload.Message)
}
