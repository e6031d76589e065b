package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/docbridge/pkg/core"
)

func TestSourceForwardsAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.SyncEvent, 2)
	in <- core.SyncEvent{Source: "a.dbrg", Bytes: 12}
	in <- core.SyncEvent{Source: "b.dbrg", Err: errors.New("bad frame")}
	close(in)

	src := NewSource(in)
	if err := src.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				if len(got) != 2 {
					t.Fatalf("expected 2 events, got %v", got)
				}
				if got[0] != "sync a.dbrg (12 bytes)" {
					t.Errorf("unexpected first event %q", got[0])
				}
				if got[1] != "sync b.dbrg failed: bad frame" {
					t.Errorf("unexpected second event %q", got[1])
				}
				return
			}
			got = append(got, e.String())
		case <-timeout:
			t.Fatal("timeout waiting for events")
		}
	}
}

func TestSourceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := NewSource(make(chan core.SyncEvent))
	if err := src.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	select {
	case _, ok := <-src.Events():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
}
