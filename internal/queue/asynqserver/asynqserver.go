package asynqserver

import (
	"github.com/hibiken/asynq"
	"github.com/mandapam/portal/internal/cache"
	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/queue/processor"
	"github.com/mandapam/portal/internal/queue/task"
	"github.com/mandapam/portal/internal/worker"
)

func New(cfg config.Cache, workers *worker.Workers, logger asynq.Logger) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: 10,
			LogLevel:    asynq.ErrorLevel,
			Logger:      logger,
			Queues:      queues,
		},
	)

	return srv, mux
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses, Password: cfg.RedisCluster.Password}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address, Password: cfg.Redis.Password}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.SendPassTaskName, processor.NewSendPassProcessor(workers))
	mux.Handle(task.EmailPassTaskName, processor.NewEmailPassProcessor(workers))
	queues := map[string]int{
		task.SendPassQueueName:  2,
		task.EmailPassQueueName: 1,
	}
	return mux, queues
}
