package detail

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielsouzza/momu-go/internal/api"
	"github.com/danielsouzza/momu-go/internal/model"
)

// AnswersState is the snapshot for an assessment's per-question answers.
type AnswersState struct {
	Phase        Phase
	AssessmentID int
	Answers      []model.Answer
	Err          string
}

func (d *Detail) Answers() AnswersState { return d.answers.Get() }

func (d *Detail) SubscribeAnswers() (<-chan AnswersState, func()) {
	return d.answers.Subscribe()
}

// FetchAnswers follows the same last-request-wins discipline as Fetch, with
// its own ticket sequence and published state.
func (d *Detail) FetchAnswers(ctx context.Context, assessmentID int) {
	d.mu.Lock()
	d.ansTicket++
	ticket := d.ansTicket
	d.answers.Set(AnswersState{Phase: PhaseLoading, AssessmentID: assessmentID})
	d.mu.Unlock()

	go func() {
		answers, err := d.gateway.FetchAnswers(ctx, assessmentID)

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.ansTicket != ticket {
			return
		}
		if err != nil {
			d.logger.Warn("answers fetch failed", zap.Int("assessment_id", assessmentID), zap.Error(err))
			d.answers.Set(AnswersState{Phase: PhaseError, AssessmentID: assessmentID, Err: api.UserMessage(err)})
			return
		}
		d.answers.Set(AnswersState{Phase: PhaseSuccess, AssessmentID: assessmentID, Answers: answers})
	}()
}
