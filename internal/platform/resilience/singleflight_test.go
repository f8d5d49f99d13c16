package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var runs int32
	var shared int32

	const sweepers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(sweepers)

	for i := 0; i < sweepers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err, wasShared := g.Do("settlement:sweep", func() (any, error) {
				atomic.AddInt32(&runs, 1)
				time.Sleep(20 * time.Millisecond)
				return "done", nil
			})
			if err != nil {
				t.Errorf("sweep call failed: %v", err)
			}
			if value != "done" {
				t.Errorf("sweep value = %v, want the shared result", value)
			}
			if wasShared {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Fatalf("sweep ran %d times, want once", got)
	}
	if got := atomic.LoadInt32(&shared); got != sweepers-1 {
		t.Fatalf("%d callers shared the result, want %d", got, sweepers-1)
	}
}

func TestSingleFlight_KeysAreIndependent(t *testing.T) {
	var g SingleFlight

	first, err, _ := g.Do("analysis:league:39", func() (any, error) { return 39, nil })
	if err != nil || first != 39 {
		t.Fatalf("first key = %v err = %v", first, err)
	}
	second, err, _ := g.Do("analysis:league:71", func() (any, error) { return 71, nil })
	if err != nil || second != 71 {
		t.Fatalf("second key = %v err = %v", second, err)
	}

	// Finished flights are forgotten; the next call reruns.
	again, err, wasShared := g.Do("analysis:league:39", func() (any, error) { return 40, nil })
	if err != nil || again != 40 || wasShared {
		t.Fatalf("rerun = %v shared = %v err = %v, want fresh execution", again, wasShared, err)
	}
}
