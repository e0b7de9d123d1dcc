package client

import (
	"github.com/hibiken/asynq"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/queue/asynqserver"
)

// New opens a producer connection on the same redis the worker consumes.
func New(cfg config.Cache) *asynq.Client {
	return asynq.NewClient(asynqserver.RedisOptions(cfg))
}
