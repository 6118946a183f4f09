package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// cleanupTask names the media files left behind by a deleted course.
type cleanupTask struct {
	CourseID string
	Paths    []string
}

// CleanupDispatcher removes deleted-course media off the request path. Tasks
// are routed to a fixed set of workers by hashing the course id, so cleanup
// for a given course runs in order.
type CleanupDispatcher struct {
	workers []chan cleanupTask
	files   ports.FileStore
	log     zerolog.Logger
}

// NewCleanupDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleanupDispatcher(numWorkers int, files ports.FileStore, log zerolog.Logger) *CleanupDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &CleanupDispatcher{
		workers: make([]chan cleanupTask, numWorkers),
		files:   files,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan cleanupTask, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *CleanupDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// EnqueueCleanup schedules deletion of the given file paths. Failures are
// logged by the worker and never surface to the caller: record deletion has
// already happened by the time cleanup runs.
func (d *CleanupDispatcher) EnqueueCleanup(courseID string, paths []string) {
	d.workers[d.shardIndex(courseID)] <- cleanupTask{CourseID: courseID, Paths: paths}
}

func (d *CleanupDispatcher) shardIndex(courseID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(courseID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *CleanupDispatcher) runWorker(ctx context.Context, id int, ch <-chan cleanupTask) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			for _, path := range task.Paths {
				if err := d.files.Delete(ctx, path); err != nil {
					d.log.Warn().Err(err).
						Str("course_id", task.CourseID).
						Str("path", path).
						Int("worker_id", id).
						Msg("media cleanup failed")
				}
			}
			d.log.Debug().
				Str("course_id", task.CourseID).
				Int("files", len(task.Paths)).
				Msg("media cleanup done")
		}
	}
}
