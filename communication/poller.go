package communication

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/rs/zerolog/log"
)

const DefaultPollInterval = 10 * time.Second

// MessageLister is the part of Service a Poller needs.
type MessageLister interface {
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)
}

// Poller refetches a conversation's messages on an interval and hands only
// messages it has not seen before to the callback. The first poll delivers
// the existing history.
type Poller struct {
	lister         MessageLister
	conversationID int64
	interval       time.Duration
	onMessages     func([]Message)

	mu   sync.Mutex
	seen map[int64]struct{}
}

func NewPoller(lister MessageLister, conversationID int64, interval time.Duration, onMessages func([]Message)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		lister:         lister,
		conversationID: conversationID,
		interval:       interval,
		onMessages:     onMessages,
		seen:           make(map[int64]struct{}),
	}
}

// Run polls until ctx is done. A failed poll is logged and retried on the
// next tick, except ErrUnauthorized which ends the loop since the session
// is gone.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if _, err := p.Poll(ctx); err != nil {
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				return err
			}
			if ctx.Err() == nil {
				log.Err(err).Int64("conversation", p.conversationID).Msg("[communication Poller] poll failed")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll fetches once and returns the new messages, also passing them to the
// callback when there are any.
func (p *Poller) Poll(ctx context.Context) ([]Message, error) {
	msgs, err := p.lister.ListMessages(ctx, p.conversationID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	fresh := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if _, ok := p.seen[m.ID]; ok {
			continue
		}
		p.seen[m.ID] = struct{}{}
		fresh = append(fresh, m)
	}
	p.mu.Unlock()

	if len(fresh) > 0 && p.onMessages != nil {
		p.onMessages(fresh)
	}
	return fresh, nil
}
