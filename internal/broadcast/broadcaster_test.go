package broadcast

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/safemap/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func alert(id string, sev models.AlertSeverity) *models.Alert {
	return &models.Alert{ID: id, Title: "alert " + id, Severity: sev, Type: models.AlertTypeDisaster}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	sub := b.Subscribe("")
	if b.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	b.Unsubscribe(sub.ID)
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}

	select {
	case _, ok := <-sub.C:
		if ok {
			t.Error("expected channel to be closed")
		}
	default:
		t.Error("channel should be closed and readable")
	}

	b.Unsubscribe(sub.ID) // second call is a no-op
}

func TestBroadcaster_Broadcast(t *testing.T) {
	b := NewBroadcaster()

	sub := b.Subscribe("")
	defer b.Unsubscribe(sub.ID)

	a := alert("a1", models.AlertSeverityHigh)
	if n := b.Broadcast(a); n != 1 {
		t.Errorf("expected 1 delivery, got %d", n)
	}

	select {
	case received := <-sub.C:
		if received.ID != a.ID {
			t.Errorf("expected ID %s, got %s", a.ID, received.ID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for broadcast")
	}
}

func TestBroadcaster_MinSeverity(t *testing.T) {
	b := NewBroadcaster()

	high := b.Subscribe(models.AlertSeverityHigh)
	all := b.Subscribe("")
	defer b.Close()

	b.Broadcast(alert("low", models.AlertSeverityLow))
	b.Broadcast(alert("medium", models.AlertSeverityMedium))
	b.Broadcast(alert("critical", models.AlertSeverityCritical))

	if len(high.C) != 1 {
		t.Fatalf("expected only the critical alert, got %d", len(high.C))
	}
	if got := <-high.C; got.ID != "critical" {
		t.Errorf("expected critical, got %s", got.ID)
	}
	if len(all.C) != 3 {
		t.Errorf("expected 3 alerts for unfiltered subscriber, got %d", len(all.C))
	}
}

func TestBroadcaster_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := b.Subscribe("")
			time.Sleep(time.Millisecond)
			b.Unsubscribe(sub.ID)
		}()
	}

	wg.Wait()

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after cleanup, got %d", b.SubscriberCount())
	}
}

func TestBroadcaster_ConcurrentSubscribeBroadcast(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := b.Subscribe("")
			drained := make(chan struct{})
			go func() {
				defer close(drained)
				for range sub.C {
				}
			}()
			time.Sleep(5 * time.Millisecond)
			b.Unsubscribe(sub.ID)
			<-drained
		}()
	}

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			b.Broadcast(alert(fmt.Sprintf("b%d", n), models.AlertSeverityMedium))
		}(i)
	}

	wg.Wait()

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()

	var subs []Subscription
	for i := 0; i < 5; i++ {
		subs = append(subs, b.Subscribe(""))
	}

	b.Close()

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", b.SubscriberCount())
	}
	for i, sub := range subs {
		select {
		case _, ok := <-sub.C:
			if ok {
				t.Errorf("channel %d should be closed", i)
			}
		default:
			t.Errorf("channel %d should be closed and readable", i)
		}
	}
}

func TestBroadcaster_SlowSubscriber(t *testing.T) {
	b := NewBroadcaster()

	sub := b.Subscribe("")
	defer b.Unsubscribe(sub.ID)

	for i := 0; i < SubscriberBuffer+1; i++ {
		b.Broadcast(alert(fmt.Sprintf("f%d", i), models.AlertSeverityLow))
	}

	if len(sub.C) != SubscriberBuffer {
		t.Errorf("expected %d buffered alerts, got %d", SubscriberBuffer, len(sub.C))
	}
	if b.Dropped() != 1 {
		t.Errorf("expected 1 dropped alert, got %d", b.Dropped())
	}
}
