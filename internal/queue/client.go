package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/veloshop-next/internal/config"
	"github.com/veloshop-next/internal/constants"
	"github.com/veloshop-next/internal/logger"
)

// Client 异步任务客户端。
// 队列禁用时为空客户端,入队调用全部静默跳过。
type Client struct {
	inner *asynq.Client
}

// NewClient 按配置创建任务客户端
func NewClient(cfg config.QueueConfig) *Client {
	if !cfg.Enabled {
		return &Client{}
	}
	return &Client{inner: asynq.NewClient(buildRedisOpt(cfg))}
}

// Enabled 队列是否可用
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭底层连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueOrderCreated 投递订单创建事件,失败只记日志
func (c *Client) EnqueueOrderCreated(orderID uint) {
	c.enqueue(constants.TaskOrderCreated, OrderCreatedPayload{OrderID: orderID})
}

// EnqueueOrderStatusChanged 投递订单状态变更事件,失败只记日志
func (c *Client) EnqueueOrderStatusChanged(orderID uint, status string) {
	c.enqueue(constants.TaskOrderStatusChanged, OrderStatusChangedPayload{
		OrderID: orderID,
		Status:  status,
	})
}

func (c *Client) enqueue(taskType string, payload interface{}) {
	if !c.Enabled() {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Errorw("queue_payload_marshal_failed", "task_type", taskType, "error", err.Error())
		return
	}
	task := asynq.NewTask(taskType, body)
	info, err := c.inner.Enqueue(task,
		asynq.Queue(constants.QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		logger.Errorw("queue_enqueue_failed", "task_type", taskType, "error", err.Error())
		return
	}
	logger.Debugw("queue_task_enqueued", "task_type", taskType, "task_id", info.ID)
}

// BuildServerConfig 生成 asynq 服务端配置
func BuildServerConfig(cfg config.QueueConfig) asynq.Config {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{constants.QueueDefault: 10}
	}
	return asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

// NewServer 按配置创建 asynq 服务端
func NewServer(cfg config.QueueConfig) *asynq.Server {
	return asynq.NewServer(buildRedisOpt(cfg), BuildServerConfig(cfg))
}

func buildRedisOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
