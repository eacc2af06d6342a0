package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"

	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

// NATSNotifier forwards board events to <prefix>.<boardID> so other services
// can follow the board without holding a websocket.
type NATSNotifier struct {
	conn   *nats.Conn
	prefix string
}

var _ ports.BoardNotifier = (*NATSNotifier)(nil)

func NewNATSNotifier(conn *nats.Conn, subjectPrefix string) *NATSNotifier {
	prefix := strings.Trim(strings.TrimSpace(subjectPrefix), ".")
	if prefix == "" {
		prefix = "condoqueixas.board"
	}
	return &NATSNotifier{conn: conn, prefix: prefix}
}

func (n *NATSNotifier) Subject(boardID string) string {
	return n.prefix + "." + boardID
}

func (n *NATSNotifier) Publish(_ context.Context, event ports.BoardEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "encode board event")
	}
	if err := n.conn.Publish(n.Subject(event.BoardID), payload); err != nil {
		return errs.Wrapf(err, "publish %s", n.Subject(event.BoardID))
	}
	return nil
}

// Fanout publishes to every notifier and joins their failures.
type Fanout []ports.BoardNotifier

var _ ports.BoardNotifier = Fanout(nil)

func (f Fanout) Publish(ctx context.Context, event ports.BoardEvent) error {
	var all []error
	for _, notifier := range f {
		if notifier == nil {
			continue
		}
		if err := notifier.Publish(ctx, event); err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}
