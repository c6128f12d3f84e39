package column

import (
	"testing"
	"time"
)

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(2)
	stop := make(chan struct{})
	defer close(stop)

	if !p.acquire(stop) {
		t.Fatal("acquire 1 failed")
	}
	if !p.acquire(stop) {
		t.Fatal("acquire 2 failed")
	}

	done := make(chan struct{})
	go func() {
		p.acquire(stop)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("acquire 3 succeeded before a slot was released")
	case <-time.After(20 * time.Millisecond):
	}

	p.release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire 3 never unblocked after release")
	}
}

func TestPoolAcquireUnblocksOnStop(t *testing.T) {
	p := NewPool(1)
	stop := make(chan struct{})

	if !p.acquire(stop) {
		t.Fatal("acquire 1 failed")
	}

	result := make(chan bool, 1)
	go func() { result <- p.acquire(stop) }()

	close(stop)
	select {
	case ok := <-result:
		if ok {
			t.Fatal("acquire reported success after stop was closed")
		}
	case <-time.After(time.Second):
		t.Fatal("acquire never returned after stop was closed")
	}
}

func TestNewPoolClampsNonPositiveSize(t *testing.T) {
	p := NewPool(0)
	stop := make(chan struct{})
	defer close(stop)
	if !p.acquire(stop) {
		t.Fatal("acquire on zero-size pool failed, want clamp to 1")
	}
}
