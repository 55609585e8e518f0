package store

import (
	"sync"
	"testing"
)

func TestStore_PutGetRoundTrips(t *testing.T) {
	s := New(4)

	id := s.Put([]byte{1, 2, 3})
	got, ok := s.Get(id)
	if !ok {
		t.Fatalf("expected id %q to be present", id)
	}
	if string(got) != "\x01\x02\x03" {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestStore_GetMissingIsNotFound(t *testing.T) {
	s := New(4)
	if _, ok := s.Get("nonexistent"); ok {
		t.Error("expected Get on an unknown id to report not found")
	}
}

func TestStore_EvictsOldestBeyondCapacity(t *testing.T) {
	s := New(2)

	first := s.Put([]byte{1})
	s.Put([]byte{2})
	s.Put([]byte{3})

	if _, ok := s.Get(first); ok {
		t.Error("expected the oldest entry to be evicted once capacity is exceeded")
	}
	if s.Len() != 2 {
		t.Errorf("got length %d, want 2", s.Len())
	}
}

func TestStore_PutCopiesPayload(t *testing.T) {
	s := New(4)
	payload := []byte{1, 2, 3}
	id := s.Put(payload)

	payload[0] = 99

	got, _ := s.Get(id)
	if got[0] != 1 {
		t.Error("Put should copy the payload, not alias the caller's slice")
	}
}

func TestStore_ConcurrentPutGet(t *testing.T) {
	s := New(100)
	var wg sync.WaitGroup

	ids := make([]string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = s.Put([]byte{byte(i)})
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		if id == "" {
			t.Fatalf("id at index %d was never set", i)
		}
		if _, ok := s.Get(id); !ok {
			t.Errorf("expected id %q to be retrievable", id)
		}
	}
}

func TestStore_NonPositiveCapacityClampsToOne(t *testing.T) {
	s := New(0)
	first := s.Put([]byte{1})
	s.Put([]byte{2})

	if _, ok := s.Get(first); ok {
		t.Error("expected capacity to clamp to at least 1, evicting the first entry")
	}
	if s.Len() != 1 {
		t.Errorf("got length %d, want 1", s.Len())
	}
}
