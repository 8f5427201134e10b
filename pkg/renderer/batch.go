package renderer

import (
	"context"
	"time"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/scene"
)

// BatchConfig controls how a batch is spread over workers
type BatchConfig struct {
	NumWorkers int // 0 means one worker per CPU
	QueueSize  int // 0 means DefaultQueueSize
}

// BatchRaycaster casts many rays against one scene in parallel
type BatchRaycaster struct {
	scene  *scene.Scene
	config BatchConfig
	logger core.Logger
}

// NewBatchRaycaster creates a batch raycaster for the scene
func NewBatchRaycaster(s *scene.Scene, config BatchConfig, logger core.Logger) *BatchRaycaster {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &BatchRaycaster{scene: s, config: config, logger: logger}
}

// Run casts every ray and returns the results in the order of rays.
// If ctx is cancelled before all results arrive, Run stops the workers
// and returns ctx.Err().
func (br *BatchRaycaster) Run(ctx context.Context, rays []core.Ray) ([]RayResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	pool := NewWorkerPool(br.scene, br.config.NumWorkers, br.config.QueueSize)
	pool.Start()
	defer pool.Stop()

	go func() {
		defer pool.CloseTasks()
		for i, ray := range rays {
			if err := pool.SubmitTask(ctx, RayTask{Ray: ray, TaskID: i}); err != nil {
				return
			}
		}
	}()

	results := make([]RayResult, len(rays))
	for received := 0; received < len(rays); received++ {
		result, err := pool.GetResult(ctx)
		if err != nil {
			br.logger.Printf("Batch cancelled after %d of %d rays: %v\n", received, len(rays), err)
			return nil, err
		}
		results[result.TaskID] = result
	}

	br.logger.Printf("Cast %d rays with %d workers in %v\n", len(rays), pool.GetNumWorkers(), time.Since(start))
	return results, nil
}
