package queues

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxBatchSize is the largest batch an event source mapping accepts.
	MaxBatchSize = 10000
	// MaxVisibilityTimeout is the longest visibility timeout a queue accepts.
	MaxVisibilityTimeout = 12 * time.Hour
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Spec describes one queue and the function it feeds.
type Spec struct {
	Name              string        `validate:"required"`
	VisibilityTimeout time.Duration `validate:"min=1s,max=12h"`
	BatchSize         int32         `validate:"min=1,max=10000"`
	// BatchWindow is the maximum batching window; nil means none.
	BatchWindow             *time.Duration `validate:"omitnil,gte=0"`
	FunctionName            string         `validate:"required"`
	ReportBatchItemFailures bool
}

// Validate checks the spec's field constraints.
func (s Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid queue %q: %w", s.Name, err)
	}
	return nil
}

// visibilitySeconds renders the visibility timeout as whole seconds.
func (s Spec) visibilitySeconds() string {
	return fmt.Sprintf("%d", int64(s.VisibilityTimeout/time.Second))
}

// batchWindowSeconds returns the batching window in seconds, 0 when unset.
func (s Spec) batchWindowSeconds() int32 {
	if s.BatchWindow == nil {
		return 0
	}
	return int32(*s.BatchWindow / time.Second)
}
