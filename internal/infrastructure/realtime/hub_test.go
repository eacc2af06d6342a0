package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"condoqueixas/internal/ports"
)

func TestHubDeliversEventsToBoardViewers(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Close)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.ServeBoard(w, r, r.URL.Query().Get("board")); err != nil {
			t.Errorf("ServeBoard() error = %v", err)
		}
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?board=b-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("b-1") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("viewer never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx := context.Background()
	if err := hub.Publish(ctx, ports.BoardEvent{Type: ports.BoardEventCardMoved, BoardID: "other", CardID: "x"}); err != nil {
		t.Fatalf("Publish(other) error = %v", err)
	}
	if err := hub.Publish(ctx, ports.BoardEvent{Type: ports.BoardEventCardMoved, BoardID: "b-1", CardID: "card-1", ColumnID: "col-2", Order: 100}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var event ports.BoardEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.CardID != "card-1" || event.ColumnID != "col-2" || event.Order != 100 {
		t.Fatalf("event = %+v", event)
	}
}

func TestPublishWithoutViewersIsNoop(t *testing.T) {
	hub := NewHub()
	if err := hub.Publish(context.Background(), ports.BoardEvent{BoardID: "empty"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if hub.Subscribers("empty") != 0 {
		t.Fatalf("Subscribers() = %d", hub.Subscribers("empty"))
	}
}
