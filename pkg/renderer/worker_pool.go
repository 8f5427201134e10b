package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/scene"
)

// DefaultQueueSize is the task and result buffer used when none is configured
const DefaultQueueSize = 256

// RayTask represents a single ray to cast against the scene
type RayTask struct {
	Ray    core.Ray
	TaskID int // For deterministic ordering
}

// RayResult contains the nearest hit for a task, if any
type RayResult struct {
	TaskID int
	Ray    core.Ray
	Hit    scene.Hit
	OK     bool // true when the ray hit a shape
}

// WorkerPool manages parallel raycasting
type WorkerPool struct {
	taskQueue   chan RayTask
	resultQueue chan RayResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	closeOnce   sync.Once
	stopOnce    sync.Once
}

// Worker handles individual raycast tasks
type Worker struct {
	ID          int
	scene       *scene.Scene
	taskQueue   chan RayTask
	resultQueue chan RayResult
	stopChan    chan struct{}
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 uses one worker per CPU and queueSize <= 0 uses DefaultQueueSize.
func NewWorkerPool(s *scene.Scene, numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RayTask, queueSize),
		resultQueue: make(chan RayResult, queueSize),
		numWorkers:  numWorkers,
		stopChan:    make(chan struct{}),
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			scene:       s,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
			stopChan:    wp.stopChan,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// SubmitTask queues a task, giving up when ctx is done or the pool is stopped
func (wp *WorkerPool) SubmitTask(ctx context.Context, task RayTask) error {
	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.stopChan:
		return context.Canceled
	}
}

// CloseTasks signals that no more tasks will be submitted.
// It must be called by the goroutine that submits tasks.
func (wp *WorkerPool) CloseTasks() {
	wp.closeOnce.Do(func() { close(wp.taskQueue) })
}

// GetResult retrieves a completed result
func (wp *WorkerPool) GetResult(ctx context.Context) (RayResult, error) {
	select {
	case result := <-wp.resultQueue:
		return result, nil
	case <-ctx.Done():
		return RayResult{}, ctx.Err()
	}
}

// Stop shuts down all workers and waits for them to exit.
// Results that have not been collected are dropped.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() { close(wp.stopChan) })
	wp.wg.Wait()
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case task, ok := <-w.taskQueue:
			if !ok {
				return
			}

			hit, hitOK := w.scene.Raycast(task.Ray)
			result := RayResult{
				TaskID: task.TaskID,
				Ray:    task.Ray,
				Hit:    hit,
				OK:     hitOK,
			}

			select {
			case w.resultQueue <- result:
			case <-w.stopChan:
				return
			}
		}
	}
}
