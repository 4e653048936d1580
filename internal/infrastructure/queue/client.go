package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/cllmenate/inventory-management/internal/application/notification"
	"github.com/cllmenate/inventory-management/pkg/config"
)

var _ notification.Dispatcher = (*Client)(nil)

// Client encola tareas en Redis.
type Client struct {
	client *asynq.Client
	queue  string
}

// RedisOpt traduce la configuración de Redis al formato de asynq.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// NewClient construye el cliente asynq.
func NewClient(opt asynq.RedisConnOpt, queue string) *Client {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Client{client: asynq.NewClient(opt), queue: queue}
}

// Dispatch implementa notification.Dispatcher.
func (c *Client) Dispatch(ctx context.Context, job notification.Job) error {
	task, err := NewJobTask(job)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, jobOptions(job, c.queue)...); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	return nil
}

// Close libera la conexión.
func (c *Client) Close() error {
	return c.client.Close()
}
