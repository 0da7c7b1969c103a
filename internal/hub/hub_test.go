package hub

import (
	"testing"
	"time"

	"github.com/kg6zjl/derbylive/internal/config"
)

func newTestHub() *Hub {
	h := NewHub(config.WebSocketConfig{})
	go h.Run()
	return h
}

func newTestClient(h *Hub, id string) *Client {
	return NewClient(id, h, nil, config.WebSocketConfig{})
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
}

func TestRegisterAndBroadcast(t *testing.T) {
	h := newTestHub()
	c1 := newTestClient(h, "c1")
	c2 := newTestClient(h, "c2")
	h.Register(c1)
	h.Register(c2)
	waitForCount(t, h, 2)

	if err := h.Broadcast(map[string]string{"type": "new_results"}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	for _, c := range []*Client{c1, c2} {
		if got := string(recv(t, c)); got != `{"type":"new_results"}` {
			t.Errorf("client %s got %s", c.ID, got)
		}
	}
}

func TestUnregisterRemovesFromDelivery(t *testing.T) {
	h := newTestHub()
	c1 := newTestClient(h, "c1")
	c2 := newTestClient(h, "c2")
	h.Register(c1)
	h.Register(c2)
	waitForCount(t, h, 2)

	h.Unregister(c1)
	waitForCount(t, h, 1)

	// c1's send channel is closed on unregister.
	if _, open := <-c1.Send; open {
		t.Error("expected closed send channel after unregister")
	}

	h.Broadcast(map[string]string{"type": "new_results"})
	recv(t, c2)
}

func TestUnregisterAbsentClientIsNoop(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "ghost")
	h.Unregister(c)
	waitForCount(t, h, 0)

	// Channel must stay open: the client was never registered.
	select {
	case _, open := <-c.Send:
		if !open {
			t.Error("send channel closed for a client that was never registered")
		}
	default:
	}
}

func TestBroadcastDropsStuckClient(t *testing.T) {
	h := newTestHub()
	stuck := newTestClient(h, "stuck")
	ok1 := newTestClient(h, "ok1")
	ok2 := newTestClient(h, "ok2")
	h.Register(stuck)
	h.Register(ok1)
	h.Register(ok2)
	waitForCount(t, h, 3)

	// Fill the stuck client's buffer so the next fan-out cannot enqueue.
	for i := 0; i < cap(stuck.Send); i++ {
		stuck.Send <- []byte("backlog")
	}

	h.Broadcast(map[string]string{"type": "new_results"})

	// Healthy clients still receive.
	recv(t, ok1)
	recv(t, ok2)

	// The stuck client is dropped as if disconnected.
	waitForCount(t, h, 2)
}

func TestSendMessageDoesNotBlockWhenFull(t *testing.T) {
	h := newTestHub()
	c := newTestClient(h, "full")
	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("backlog")
	}

	done := make(chan struct{})
	go func() {
		c.SendMessage(map[string]string{"type": "pong"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SendMessage blocked on a full buffer")
	}
}
