package events

import (
	"sync"
	"testing"

	"github.com/julianstephens/potd/internal/models"
)

func TestPublishOrderAndUnsubscribe(t *testing.T) {
	b := NewBus[int]()

	var got []string
	unsubA := b.Subscribe(func(v int) { got = append(got, "a") })
	b.Subscribe(func(v int) { got = append(got, "b") })

	b.Publish(1)
	unsubA()
	unsubA()
	b.Publish(2)

	want := []string{"a", "b", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus[StreakUpdated]
	b.Publish(StreakUpdated{})
}

func TestSubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus[int]()
	var unsub func()
	calls := 0
	unsub = b.Subscribe(func(int) {
		calls++
		unsub()
	})
	b.Publish(1)
	b.Publish(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestConcurrentPublish(t *testing.T) {
	h := NewHub()
	var mu sync.Mutex
	total := 0
	h.Streak.Subscribe(func(ev StreakUpdated) {
		mu.Lock()
		total += ev.Record.Count
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Streak.Publish(StreakUpdated{Record: models.StreakRecord{Count: 1}})
		}()
	}
	wg.Wait()

	if total != 20 {
		t.Errorf("total = %d, want 20", total)
	}
}
