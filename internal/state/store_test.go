package state

import (
	"sync"
	"testing"
)

func TestStore_GetSet(t *testing.T) {
	s := NewStore(1)
	if got := s.Get(); got != 1 {
		t.Fatalf("Expected initial value 1, got %d", got)
	}

	s.Set(5)
	if got := s.Get(); got != 5 {
		t.Errorf("Expected 5 after Set, got %d", got)
	}

	got := s.Update(func(v int) int { return v * 2 })
	if got != 10 || s.Get() != 10 {
		t.Errorf("Expected 10 after Update, got %d / %d", got, s.Get())
	}
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore("a")

	var seen []string
	cancel := s.Subscribe(func(v string) { seen = append(seen, v) })

	s.Set("b")
	s.Update(func(v string) string { return v + "c" })
	cancel()
	s.Set("d")

	if len(seen) != 2 || seen[0] != "b" || seen[1] != "bc" {
		t.Errorf("Expected [b bc], got %v", seen)
	}
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := NewStore(0)

	var observed int
	s.Subscribe(func(int) { observed = s.Get() })
	s.Set(3)

	if observed != 3 {
		t.Errorf("Expected subscriber to read 3, got %d", observed)
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()

	if got := s.Get(); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
}
