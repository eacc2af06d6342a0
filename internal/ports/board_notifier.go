package ports

import (
	"context"
	"time"
)

const (
	BoardEventCardMoved   = "card.moved"
	BoardEventCardSynced  = "card.synced"
	BoardEventCardCreated = "card.created"
	BoardEventCardDeleted = "card.deleted"
)

type BoardEvent struct {
	Type       string    `json:"type"`
	BoardID    string    `json:"boardId"`
	CardID     string    `json:"cardId"`
	ColumnID   string    `json:"columnId,omitempty"`
	Order      int       `json:"order,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BoardNotifier fans board changes out to live viewers. Delivery is best-effort.
type BoardNotifier interface {
	Publish(ctx context.Context, event BoardEvent) error
}
