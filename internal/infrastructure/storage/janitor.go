package storage

import (
	"container/heap"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultArtifactTTL is how long generated artifacts stay on disk when no
// explicit delay is given.
const DefaultArtifactTTL = 60 * time.Second

// deletion is one pending file removal
type deletion struct {
	path  string
	dueAt time.Time
}

// deletionQueue is a min-heap ordered by due time
type deletionQueue []deletion

func (q deletionQueue) Len() int            { return len(q) }
func (q deletionQueue) Less(i, j int) bool  { return q[i].dueAt.Before(q[j].dueAt) }
func (q deletionQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *deletionQueue) Push(x interface{}) { *q = append(*q, x.(deletion)) }
func (q *deletionQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Janitor removes ephemeral artifacts after their TTL expires. All scheduled
// deletions share one queue and one worker goroutine, so the number of
// pending removals never affects the number of goroutines. Removal failures
// are logged and swallowed; a file that is already gone is not an error.
type Janitor struct {
	defaultTTL time.Duration
	logger     *zap.Logger

	mu    sync.Mutex
	queue deletionQueue

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewJanitor creates a janitor with the given default TTL. A zero TTL falls
// back to DefaultArtifactTTL.
func NewJanitor(defaultTTL time.Duration, logger *zap.Logger) *Janitor {
	if defaultTTL <= 0 {
		defaultTTL = DefaultArtifactTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{
		defaultTTL: defaultTTL,
		logger:     logger,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the worker goroutine
func (j *Janitor) Start() {
	go j.run()
}

// Stop shuts the worker down. Pending deletions that have not come due are
// abandoned; the artifacts simply stay on disk.
func (j *Janitor) Stop() {
	j.once.Do(func() { close(j.stop) })
	<-j.done
}

// Schedule queues path for deletion after delay. A non-positive delay uses
// the default TTL.
func (j *Janitor) Schedule(path string, delay time.Duration) {
	if delay <= 0 {
		delay = j.defaultTTL
	}

	j.mu.Lock()
	heap.Push(&j.queue, deletion{path: path, dueAt: time.Now().Add(delay)})
	pending := j.queue.Len()
	j.mu.Unlock()

	j.logger.Debug("deletion scheduled",
		zap.String("path", path),
		zap.Duration("delay", delay),
		zap.Int("pending", pending))

	// Nudge the worker in case the new entry is due before the current head
	select {
	case j.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued deletions
func (j *Janitor) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.queue.Len()
}

func (j *Janitor) run() {
	defer close(j.done)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		j.mu.Lock()
		var wait time.Duration
		if j.queue.Len() == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(j.queue[0].dueAt)
		}
		j.mu.Unlock()

		if wait <= 0 {
			j.reapDue()
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-j.stop:
			return
		case <-j.wake:
		case <-timer.C:
			j.reapDue()
		}
	}
}

// reapDue removes every queued file whose due time has passed
func (j *Janitor) reapDue() {
	now := time.Now()

	for {
		j.mu.Lock()
		if j.queue.Len() == 0 || j.queue[0].dueAt.After(now) {
			j.mu.Unlock()
			return
		}
		entry := heap.Pop(&j.queue).(deletion)
		j.mu.Unlock()

		if err := os.Remove(entry.path); err != nil {
			if os.IsNotExist(err) {
				j.logger.Debug("artifact already gone", zap.String("path", entry.path))
				continue
			}
			j.logger.Error("failed to delete artifact",
				zap.String("path", entry.path),
				zap.Error(err))
			continue
		}

		j.logger.Info("artifact deleted", zap.String("path", entry.path))
	}
}
