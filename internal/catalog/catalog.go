// Package catalog fetches the grouped/ungrouped assessment listing for the
// active role. The listing is accepted exactly as the server buckets it.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielsouzza/momu-go/internal/api"
	"github.com/danielsouzza/momu-go/internal/model"
	"github.com/danielsouzza/momu-go/internal/watch"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the published snapshot. An empty catalog is a success, distinct
// from an error: Grouped and Ungrouped both empty with PhaseSuccess means
// "nothing to show", not "something broke".
type State struct {
	Phase     Phase
	Grouped   []model.AssessmentGroup
	Ungrouped []model.Assessment
	Err       string
}

type Catalog struct {
	gateway      api.Gateway
	logger       *zap.Logger
	state        *watch.Value[State]
	consolidated *watch.Value[ConsolidatedState]
}

func New(gateway api.Gateway, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		gateway:      gateway,
		logger:       logger,
		state:        watch.NewValue(State{Phase: PhaseLoading}),
		consolidated: watch.NewValue(ConsolidatedState{Phase: PhaseLoading}),
	}
}

func (c *Catalog) State() State                      { return c.state.Get() }
func (c *Catalog) Subscribe() (<-chan State, func()) { return c.state.Subscribe() }

// Fetch makes a single attempt at loading the listing. Every terminal state
// is recoverable by calling Fetch again.
func (c *Catalog) Fetch(ctx context.Context) {
	c.state.Set(State{Phase: PhaseLoading})

	listing, err := c.gateway.FetchCatalog(ctx)
	if err != nil {
		c.logger.Warn("catalog fetch failed", zap.Error(err))
		c.state.Set(State{Phase: PhaseError, Err: api.UserMessage(err)})
		return
	}
	c.state.Set(State{Phase: PhaseSuccess, Grouped: listing.Grouped, Ungrouped: listing.Ungrouped})
}
