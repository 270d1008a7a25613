package scheduler

import (
	"context"
	"errors"
	"fmt"

	"maturity_backend/platform/config"
	"maturity_backend/platform/redisx"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const deliveryMaxRetry = 5

type Client struct {
	client *asynq.Client
	queue  string
}

// ReportEnqueuer schedules report delivery for a stored lead.
type ReportEnqueuer interface {
	EnqueueReportDelivery(ctx context.Context, leadID uuid.UUID) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueReportDelivery enqueues one delivery per lead. The task id is
// derived from the lead, so a second enqueue while the first is still
// queued or retrying is a no-op.
func (c *Client) EnqueueReportDelivery(ctx context.Context, leadID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewReportDeliveryTask(ReportDeliveryPayload{LeadID: leadID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID(deliveryTaskID(leadID)),
		asynq.MaxRetry(deliveryMaxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func deliveryTaskID(leadID uuid.UUID) string {
	return "report-delivery:" + leadID.String()
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redisx.ParseOptions(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var _ ReportEnqueuer = (*Client)(nil)
