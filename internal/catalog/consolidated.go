package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielsouzza/momu-go/internal/api"
	"github.com/danielsouzza/momu-go/internal/model"
)

// ConsolidatedState is the snapshot for the cross-evaluator aggregate of one
// course and period.
type ConsolidatedState struct {
	Phase  Phase
	Result model.ConsolidatedResult
	Err    string
}

func (c *Catalog) Consolidated() ConsolidatedState { return c.consolidated.Get() }

func (c *Catalog) SubscribeConsolidated() (<-chan ConsolidatedState, func()) {
	return c.consolidated.Subscribe()
}

// FetchConsolidated loads the aggregate result for courseID and periodID.
// Same single-attempt, recoverable-error contract as Fetch.
func (c *Catalog) FetchConsolidated(ctx context.Context, courseID, periodID int) {
	c.consolidated.Set(ConsolidatedState{Phase: PhaseLoading})

	result, err := c.gateway.FetchConsolidated(ctx, courseID, periodID)
	if err != nil {
		c.logger.Warn("consolidated fetch failed",
			zap.Int("course_id", courseID),
			zap.Int("period_id", periodID),
			zap.Error(err))
		c.consolidated.Set(ConsolidatedState{Phase: PhaseError, Err: api.UserMessage(err)})
		return
	}
	c.consolidated.Set(ConsolidatedState{Phase: PhaseSuccess, Result: result})
}
