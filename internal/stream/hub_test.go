package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func expectMessage(t *testing.T, client *Client, want string) {
	t.Helper()
	select {
	case msg := <-client.Send:
		if string(msg) != want {
			t.Fatalf("expected %q, got %q", want, msg)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectSilence(t *testing.T, client *Client) {
	t.Helper()
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected message %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("plan-1")
	other := hub.Register("plan-2")
	defer hub.Unregister(client)
	defer hub.Unregister(other)

	hub.Broadcast("plan-1", []byte("hello"))
	expectMessage(t, client, "hello")
	expectSilence(t, other)

	if hub.Subscribers("plan-1") != 1 || hub.Subscribers("plan-3") != 0 {
		t.Fatalf("unexpected subscriber counts")
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if ch != "plans:abc:updates" {
		t.Fatalf("unexpected channel %q", ch)
	}
	if planIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected plan id")
	}
	for _, bad := range []string{"bad", "plans::updates", "tracking:abc:broadcast"} {
		if planIDFromChannel(bad) != "" {
			t.Fatalf("expected empty plan id for %q", bad)
		}
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("plan-2")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
	hub.Unregister(client)
	if hub.Subscribers("plan-2") != 0 {
		t.Fatalf("expected no subscribers")
	}
}

func TestHubRedisDeliversOnceAcrossInstances(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	a := NewHub(client)
	b := NewHub(client)
	defer a.Close()
	defer b.Close()

	onA := a.Register("plan-redis")
	onB := b.Register("plan-redis")
	defer a.Unregister(onA)
	defer b.Unregister(onB)

	a.Broadcast("plan-redis", []byte("ping"))
	expectMessage(t, onA, "ping")
	expectMessage(t, onB, "ping")
	expectSilence(t, onA)

	if err := client.Publish(context.Background(), "plans:plan-redis:updates", "pong").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}
	expectMessage(t, onB, "pong")
}

func TestHubFallsBackWithoutRedis(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	defer hub.Close()
	node := hub.Register("plan-bad")
	defer hub.Unregister(node)

	hub.Broadcast("plan-bad", []byte("ping"))
	expectMessage(t, node, "ping")
}

func TestHubFallsBackWhenPublishFails(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	defer client.Close()

	hub := NewHub(client)
	node := hub.Register("plan-x")
	defer hub.Unregister(node)

	server.Close()
	hub.Broadcast("plan-x", []byte("ping"))
	expectMessage(t, node, "ping")
	_ = hub.Close()
}
