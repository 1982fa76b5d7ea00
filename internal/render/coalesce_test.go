package render

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescerCollapsesBursts(t *testing.T) {
	var renders atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	c := NewCoalescer(func() {
		renders.Add(1)
		once.Do(func() {
			close(started)
			<-release
		})
	})

	c.Request()
	<-started

	// A burst of requests while the first render is blocked must coalesce
	// into at most one extra render.
	for i := 0; i < 50; i++ {
		c.Request()
	}
	close(release)
	c.Wait()

	if n := renders.Load(); n != 2 {
		t.Errorf("renders = %d, want 2 (one in flight plus one coalesced)", n)
	}
}

func TestCoalescerWaitUnderConcurrentRequests(t *testing.T) {
	var renders atomic.Int64
	c := NewCoalescer(func() {
		time.Sleep(time.Millisecond)
		renders.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Request()
			c.Wait()
			if renders.Load() == 0 {
				t.Error("Wait returned before any render completed")
			}
		}()
	}
	wg.Wait()
}

func TestCoalescerRunsAgainAfterIdle(t *testing.T) {
	var renders atomic.Int64
	c := NewCoalescer(func() { renders.Add(1) })

	c.Request()
	c.Wait()
	c.Request()
	c.Wait()

	// Requests separated by idle periods are not coalesced.
	deadline := time.After(time.Second)
	for renders.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("renders = %d, want 2", renders.Load())
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
