package cache

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// A mixed workload of concurrent Put/Get/Add/Remove on random keys.
// Should pass under `-race` without detector reports.
func TestRace_Basic(t *testing.T) {
	c := New[string, []byte](Options[string, []byte]{
		Capacity: 8_192,
		Shards:   32,
	})
	t.Cleanup(func() { _ = c.Close() })

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 50_000
	deadline := time.Now().Add(2 * time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% — Remove
					c.Remove(k)
				case 5, 6, 7, 8, 9: // ~5% — Add
					c.Add(k, []byte("x"))
				case 10, 11, 12, 13, 14, 15, 16, 17, 18, 19: // ~10% — Put
					c.Put(k, []byte("x"))
				default: // ~80% — Get
					c.Get(k)
				}
			}
		}(w)
	}
	wg.Wait()
}

// Disjoint-key safety: N goroutines each insert M unique keys; with
// N*M within capacity every entry must land intact — exactly N*M
// resident entries and no key carrying another key's value.
func TestRace_DisjointKeyInserts(t *testing.T) {
	const (
		workers = 8
		perW    = 500
	)
	c := New[int, int](Options[int, int]{
		Capacity: workers * perW,
		Shards:   16,
	})
	t.Cleanup(func() { _ = c.Close() })

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		base := w * perW
		g.Go(func() error {
			for i := base; i < base+perW; i++ {
				c.Put(i, i*3)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if n := c.Len(); n != workers*perW {
		t.Fatalf("Len=%d, want %d", n, workers*perW)
	}
	for i := 0; i < workers*perW; i++ {
		if v, ok := c.Get(i); !ok || v != i*3 {
			t.Fatalf("key %d: got %v ok=%v, want %d", i, v, ok, i*3)
		}
	}
}

// Concurrent writers past capacity: the resident count may transiently
// overshoot by the number of racing Puts but must settle at or below
// capacity plus that bound, never unbounded.
func TestRace_CapacityPressure(t *testing.T) {
	const capacity = 1_000
	workers := 2 * runtime.GOMAXPROCS(0)

	c := New[int, int](Options[int, int]{
		Capacity: capacity,
		Shards:   16,
	})
	t.Cleanup(func() { _ = c.Close() })

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		id := w
		g.Go(func() error {
			for i := 0; i < 2_000; i++ {
				c.Put(id*1_000_000+i, i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if n := c.Len(); n > capacity+workers {
		t.Fatalf("resident count %d exceeds capacity %d by more than the writer bound %d", n, capacity, workers)
	}
}
