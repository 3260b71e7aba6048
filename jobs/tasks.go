package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogWarmup is the task type that preloads the catalog cache.
	TaskCatalogWarmup = "catalog:warmup"
)

// CatalogWarmupPayload selects which listings to preload. A zero PageSize
// warms the unpaged listings only.
type CatalogWarmupPayload struct {
	PageSize int `json:"page_size,omitempty"`
	Pages    int `json:"pages,omitempty"`
}

// NewCatalogWarmupTask constructs an Asynq task.
func NewCatalogWarmupTask(payload CatalogWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogWarmup, data), nil
}
