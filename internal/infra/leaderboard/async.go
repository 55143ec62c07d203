package leaderboard

import (
	"context"
	"sync"
	"time"

	"github.com/kidcapital/server/internal/platform/logger"
)

// Async publishes from a single background worker. Submit never blocks; when
// rows pile up only the newest is kept, since each row replaces the last.
type Async struct {
	inner    Publisher
	timeout  time.Duration
	recorder Recorder
	logger   *logger.Logger

	mu      sync.Mutex
	pending *Entry
	wake    chan struct{}
	done    chan struct{}
	stop    sync.Once
	cancel  context.CancelFunc
}

// NewAsync starts the worker. recorder may be nil.
func NewAsync(inner Publisher, timeout time.Duration, recorder Recorder, log *logger.Logger) *Async {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Async{
		inner:    inner,
		timeout:  timeout,
		recorder: recorder,
		logger:   log,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
	go a.run(ctx)
	return a
}

// Submit queues e for publishing.
func (a *Async) Submit(e Entry) {
	a.mu.Lock()
	a.pending = &e
	a.mu.Unlock()
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *Async) run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.wake:
		}
		a.mu.Lock()
		e := a.pending
		a.pending = nil
		a.mu.Unlock()
		if e != nil {
			a.publish(ctx, *e)
		}
	}
}

func (a *Async) publish(ctx context.Context, e Entry) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	err := a.inner.Publish(ctx, e)
	if a.recorder != nil {
		a.recorder.RecordLeaderboardPublish(time.Since(start), err)
	}
	if err != nil {
		a.logger.Warnf("Leaderboard publish failed: %v", err)
		return
	}
	a.logger.Event("LEADERBOARD_SYNC", e.ID, e.Username)
}

// Close stops the worker, dropping anything still pending, and closes the
// inner publisher.
func (a *Async) Close() {
	a.stop.Do(func() {
		a.cancel()
		<-a.done
		a.inner.Close()
	})
}
