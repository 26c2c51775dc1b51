package singleflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestDo_Coalesces(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	var calls atomic.Int64
	release := make(chan struct{})

	fn := func() (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const n = 16
	var eg errgroup.Group
	var started sync.WaitGroup
	started.Add(n)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			started.Done()
			v, _, err := g.Do(context.Background(), "k", fn)
			if err != nil {
				return err
			}
			if v != 42 {
				return errors.New("wrong value")
			}
			return nil
		})
	}
	started.Wait()
	time.Sleep(10 * time.Millisecond) // let followers join the flight
	close(release)

	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got < 1 || got > n {
		t.Fatalf("calls=%d", got)
	}
}

func TestDo_SequentialCallsRunAgain(t *testing.T) {
	t.Parallel()

	var g Group[int, int]
	var calls int
	for i := 0; i < 3; i++ {
		v, shared, err := g.Do(context.Background(), 1, func() (int, error) {
			calls++
			return calls, nil
		})
		if err != nil || shared || v != i+1 {
			t.Fatalf("round %d: v=%d shared=%v err=%v", i, v, shared, err)
		}
	}
}

func TestDo_WaiterContextCancelled(t *testing.T) {
	t.Parallel()

	var g Group[string, string]
	release := make(chan struct{})
	leaderIn := make(chan struct{})

	go func() {
		_, _, _ = g.Do(context.Background(), "k", func() (string, error) {
			close(leaderIn)
			<-release
			return "v", nil
		})
	}()
	<-leaderIn

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Do(ctx, "k", func() (string, error) { return "", nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	close(release)
}

func TestDo_LeaderPanic(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	leaderIn := make(chan struct{})
	release := make(chan struct{})
	panicked := make(chan any, 1)

	go func() {
		defer func() { panicked <- recover() }()
		_, _, _ = g.Do(context.Background(), "k", func() (int, error) {
			close(leaderIn)
			<-release
			panic("boom")
		})
	}()
	<-leaderIn

	errc := make(chan error, 1)
	go func() {
		_, _, err := g.Do(context.Background(), "k", func() (int, error) { return 1, nil })
		errc <- err
	}()
	time.Sleep(10 * time.Millisecond)
	close(release)

	if p := <-panicked; p != "boom" {
		t.Fatalf("leader must re-panic, got %v", p)
	}
	// The second caller either joined the panicking flight or ran after it.
	if err := <-errc; err != nil && !errors.Is(err, ErrLeaderPanicked) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestForget(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	leaderIn := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _, _ = g.Do(context.Background(), "k", func() (int, error) {
			close(leaderIn)
			<-release
			return 1, nil
		})
	}()
	<-leaderIn
	g.Forget("k")

	v, shared, err := g.Do(context.Background(), "k", func() (int, error) { return 2, nil })
	if err != nil || shared || v != 2 {
		t.Fatalf("after Forget: v=%d shared=%v err=%v", v, shared, err)
	}
	close(release)
}
