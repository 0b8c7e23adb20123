// Package stream fans plan events out to websocket subscribers, across
// instances when a Redis client is configured.
package stream

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "plans:"
	channelSuffix  = ":updates"
	channelPattern = channelPrefix + "*" + channelSuffix
	sendBuffer     = 64
)

type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	done    chan struct{}
}

type Client struct {
	PlanID string
	Send   chan []byte
}

// NewHub delivers locally when redisClient is nil or the subscription cannot
// be confirmed; otherwise every broadcast goes through Redis so each instance
// delivers it exactly once.
func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		clients: map[string]map[*Client]struct{}{},
		done:    make(chan struct{}),
	}

	if redisClient != nil {
		ctx := context.Background()
		pubsub := redisClient.PSubscribe(ctx, channelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Printf("redis subscribe error, delivering locally: %v", err)
			_ = pubsub.Close()
		} else {
			h.redis = redisClient
			h.pubsub = pubsub
			go h.forward(pubsub.Channel())
		}
	}
	return h
}

func (h *Hub) Register(planID string) *Client {
	client := &Client{
		PlanID: planID,
		Send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[planID] == nil {
		h.clients[planID] = map[*Client]struct{}{}
	}
	h.clients[planID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	planClients, ok := h.clients[client.PlanID]
	if !ok {
		return
	}
	if _, ok := planClients[client]; !ok {
		return
	}
	delete(planClients, client)
	if len(planClients) == 0 {
		delete(h.clients, client.PlanID)
	}
	close(client.Send)
}

func (h *Hub) Subscribers(planID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[planID])
}

func (h *Hub) Broadcast(planID string, payload []byte) {
	h.mu.RLock()
	rdb := h.redis
	h.mu.RUnlock()

	if rdb != nil {
		err := rdb.Publish(context.Background(), redisChannel(planID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error, delivering locally: %v", err)
	}
	h.deliver(planID, payload)
}

// Close stops the Redis subscription. Local delivery keeps working.
func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	h.mu.Lock()
	h.redis = nil
	h.mu.Unlock()
	err := h.pubsub.Close()
	<-h.done
	return err
}

func (h *Hub) deliver(planID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[planID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) forward(messages <-chan *redis.Message) {
	defer close(h.done)
	for msg := range messages {
		planID := planIDFromChannel(msg.Channel)
		if planID == "" {
			continue
		}
		h.deliver(planID, []byte(msg.Payload))
	}
}

func redisChannel(planID string) string {
	return channelPrefix + planID + channelSuffix
}

func planIDFromChannel(ch string) string {
	// plans:{id}:updates
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
