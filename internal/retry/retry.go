package retry

import (
	"time"

	"github.com/wb-go/wbf/retry"
)

// DefaultStrategy is used for catalog store statements.
var DefaultStrategy = retry.Strategy{
	Attempts: 3,
	Delay:    200 * time.Millisecond,
	Backoff:  2.0,
}

// PublishStrategy is used when a request publishes a cleanup task.
var PublishStrategy = retry.Strategy{
	Attempts: 2,
	Delay:    100 * time.Millisecond,
	Backoff:  2.0,
}

// QueueStrategy is used by the worker for fetching and for retrying a task.
var QueueStrategy = retry.Strategy{
	Attempts: 3,
	Delay:    2 * time.Second,
	Backoff:  2.0,
}
