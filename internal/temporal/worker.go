// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package temporal

import (
	"fmt"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"media-agent/internal/config"
)

// Worker owns the Temporal client and worker for the media task queue.
type Worker struct {
	client client.Client
	worker worker.Worker
}

// NewWorker dials the Temporal server and registers the media task workflow
// and activities on the configured task queue.
func NewWorker(cfg config.TemporalConfig, activities *MediaActivities) (*Worker, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}

	w := worker.New(c, cfg.TaskQueue, worker.Options{})
	w.RegisterWorkflow(MediaTaskWorkflow)
	w.RegisterActivity(activities)

	return &Worker{client: c, worker: w}, nil
}

// Run blocks serving the task queue until the interrupt channel fires.
func (w *Worker) Run() error {
	defer w.client.Close()
	return w.worker.Run(worker.InterruptCh())
}
