package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/docbridge/pkg/core"
)

type syncSource struct {
	events <-chan core.SyncEvent
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits sync events, typically
// the ones produced by an fs.Watcher.
func NewSource(events <-chan core.SyncEvent) lifecycle.Source {
	return &syncSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *syncSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *syncSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
