package worker

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/veloshop-next/internal/config"
	"github.com/veloshop-next/internal/logger"
	"github.com/veloshop-next/internal/queue"
)

// Service 队列消费服务,实现应用运行器的 Service 接口
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建消费服务并注册处理器
func NewService(cfg config.QueueConfig, consumer *Consumer) *Service {
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server: queue.NewServer(cfg),
		mux:    mux,
	}
}

func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费循环
func (s *Service) Start(ctx context.Context) error {
	logger.Infow("worker_starting")
	return s.server.Start(s.mux)
}

// Stop 优雅停止,等待在途任务完成
func (s *Service) Stop(ctx context.Context) error {
	s.server.Shutdown()
	logger.Infow("worker_stopped")
	return nil
}
