package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/logger"
)

// TestNewSyncEventBus tests event bus creation.
func TestNewSyncEventBus(t *testing.T) {
	bus := NewSyncEventBus()

	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", bus.SubscriberCount())
	}
	if bus.closed {
		t.Error("New event bus should not be closed")
	}
}

// TestPublishSubscribe tests basic publish/subscribe functionality.
func TestPublishSubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var received domain.Event
	calls := 0
	subID := bus.Subscribe(domain.EventModuleChanged, func(event domain.Event) {
		received = event
		calls++
	})
	if subID == "" {
		t.Fatal("Subscribe returned empty subscription ID")
	}

	bus.Publish(domain.NewModuleChangedEvent("", "circular"))

	if calls != 1 {
		t.Fatalf("Expected handler to be called once, got %d", calls)
	}
	changed, ok := received.(domain.ModuleChangedEvent)
	if !ok {
		t.Fatalf("Expected ModuleChangedEvent, got %T", received)
	}
	if changed.Module != "circular" {
		t.Errorf("Expected module circular, got %s", changed.Module)
	}
}

// TestDeliveryOrder tests that type handlers run before wildcard handlers, in subscription order.
func TestDeliveryOrder(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var order []string
	bus.SubscribeAll(func(domain.Event) { order = append(order, "all") })
	bus.Subscribe(domain.EventFPSToggled, func(domain.Event) { order = append(order, "first") })
	bus.Subscribe(domain.EventFPSToggled, func(domain.Event) { order = append(order, "second") })

	bus.Publish(domain.NewFPSToggledEvent(true))

	want := []string{"first", "second", "all"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
}

// TestUnsubscribe tests removing a handler keeps the others.
func TestUnsubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var first, second int
	id := bus.Subscribe(domain.EventVisualizerStopped, func(domain.Event) { first++ })
	bus.Subscribe(domain.EventVisualizerStopped, func(domain.Event) { second++ })

	bus.Unsubscribe(id)
	bus.Publish(domain.NewVisualizerStoppedEvent())

	if first != 0 {
		t.Errorf("Unsubscribed handler was called %d times", first)
	}
	if second != 1 {
		t.Errorf("Remaining handler expected 1 call, got %d", second)
	}
	if bus.SubscriberCount() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", bus.SubscriberCount())
	}

	// unknown and repeated IDs are ignored
	bus.Unsubscribe(id)
	bus.Unsubscribe("sub-does-not-exist")
}

// TestHasSubscribers tests type and wildcard lookups.
func TestHasSubscribers(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	if bus.HasSubscribers(domain.EventTrackLoaded) {
		t.Error("Expected no subscribers")
	}

	id := bus.Subscribe(domain.EventTrackLoaded, func(domain.Event) {})
	if !bus.HasSubscribers(domain.EventTrackLoaded) {
		t.Error("Expected subscribers for track.loaded")
	}
	if bus.HasSubscribers(domain.EventTrackError) {
		t.Error("Expected no subscribers for track.error")
	}

	bus.Unsubscribe(id)
	bus.SubscribeAll(func(domain.Event) {})
	if !bus.HasSubscribers(domain.EventTrackError) {
		t.Error("Wildcard subscriber should count for every type")
	}
}

// TestHandlerPanic tests that a panicking handler does not stop delivery.
func TestHandlerPanic(t *testing.T) {
	bus := NewSyncEventBus()
	bus.SetLogger(logger.NewTestLogger())
	defer bus.Close()

	called := false
	bus.Subscribe(domain.EventAnalyzerToggled, func(domain.Event) { panic("boom") })
	bus.Subscribe(domain.EventAnalyzerToggled, func(domain.Event) { called = true })

	bus.Publish(domain.NewAnalyzerToggledEvent(true))

	if !called {
		t.Error("Handler after the panicking one should still be called")
	}
}

// TestClose tests closing semantics.
func TestClose(t *testing.T) {
	bus := NewSyncEventBus()

	calls := 0
	bus.Subscribe(domain.EventVisualizerStarted, func(domain.Event) { calls++ })

	if err := bus.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := bus.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed on second close, got %v", err)
	}

	bus.Publish(domain.NewVisualizerStartedEvent("circular"))
	if calls != 0 {
		t.Errorf("Publish after close delivered %d events", calls)
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected no subscribers after close, got %d", bus.SubscriberCount())
	}

	defer func() {
		if recover() == nil {
			t.Error("Subscribe on closed bus should panic")
		}
	}()
	bus.Subscribe(domain.EventVisualizerStarted, func(domain.Event) {})
}

// TestNilEventAndHandler tests nil handling.
func TestNilEventAndHandler(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	bus.Publish(nil)

	defer func() {
		if recover() == nil {
			t.Error("Subscribe with nil handler should panic")
		}
	}()
	bus.Subscribe(domain.EventTrackLoaded, nil)
}

// TestHandlerCanSubscribe tests that handlers may use the bus re-entrantly.
func TestHandlerCanSubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	bus.Subscribe(domain.EventTrackLoaded, func(domain.Event) {
		bus.Subscribe(domain.EventTrackStarted, func(domain.Event) {})
		bus.Publish(domain.NewTrackStartedEvent(domain.Track{}))
	})

	bus.Publish(domain.NewTrackLoadedEvent(domain.Track{Title: "x"}))

	if bus.SubscriberCount() != 2 {
		t.Errorf("Expected 2 subscribers, got %d", bus.SubscriberCount())
	}
}

// TestConcurrentPublishAndSubscribe tests thread-safety under the race detector.
func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var delivered int64
	bus.SubscribeAll(func(domain.Event) { atomic.AddInt64(&delivered, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(domain.NewFPSToggledEvent(j%2 == 0))
			}
		}()
		go func() {
			defer wg.Done()
			id := bus.Subscribe(domain.EventFPSToggled, func(domain.Event) {})
			bus.Unsubscribe(id)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&delivered); got != 1000 {
		t.Errorf("Expected 1000 wildcard deliveries, got %d", got)
	}
}
