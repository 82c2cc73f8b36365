// Package detail fetches one assessment's scored result. Fetch dispatches the
// network call in the background and the newest requested id always wins: a
// younger Fetch invalidates any older in-flight request, whose late response
// is dropped instead of corrupting the published state.
package detail

import (
	"context"
	"sync"

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

// State is the published snapshot. AssessmentID identifies which request the
// snapshot belongs to in every phase.
type State struct {
	Phase        Phase
	AssessmentID int
	Result       model.Result
	Err          string
}

type Detail struct {
	gateway api.Gateway
	logger  *zap.Logger
	state   *watch.Value[State]
	answers *watch.Value[AnswersState]

	// mu serializes ticket assignment with state publication so a stale
	// response can never overwrite a younger request's snapshot.
	mu        sync.Mutex
	ticket    uint64
	ansTicket uint64
}

func New(gateway api.Gateway, logger *zap.Logger) *Detail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detail{
		gateway: gateway,
		logger:  logger,
		state:   watch.NewValue(State{Phase: PhaseLoading}),
		answers: watch.NewValue(AnswersState{Phase: PhaseLoading}),
	}
}

func (d *Detail) State() State                      { return d.state.Get() }
func (d *Detail) Subscribe() (<-chan State, func()) { return d.state.Subscribe() }

// Fetch resets to loading for assessmentID immediately and resolves in the
// background. Re-fetching an id that already succeeded is allowed and goes to
// the server again; there is no cache. There is no cancellation of the older
// call either, its response is simply ignored once a newer Fetch has started.
func (d *Detail) Fetch(ctx context.Context, assessmentID int) {
	d.mu.Lock()
	d.ticket++
	ticket := d.ticket
	d.state.Set(State{Phase: PhaseLoading, AssessmentID: assessmentID})
	d.mu.Unlock()

	go func() {
		result, err := d.gateway.FetchDetail(ctx, assessmentID)
		if err != nil {
			if d.publish(ticket, State{Phase: PhaseError, AssessmentID: assessmentID, Err: api.UserMessage(err)}) {
				d.logger.Warn("detail fetch failed", zap.Int("assessment_id", assessmentID), zap.Error(err))
			}
			return
		}
		d.publish(ticket, State{Phase: PhaseSuccess, AssessmentID: assessmentID, Result: result})
	}()
}

// publish applies the terminal state only if ticket is still the newest
// request; it reports whether the state was applied.
func (d *Detail) publish(ticket uint64, next State) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticket != ticket {
		d.logger.Debug("dropping stale detail response", zap.Int("assessment_id", next.AssessmentID))
		return false
	}
	d.state.Set(next)
	return true
}
