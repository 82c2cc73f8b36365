package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielsouzza/momu-go/internal/catalog"
	"github.com/danielsouzza/momu-go/internal/chart"
	"github.com/danielsouzza/momu-go/internal/detail"
	"github.com/danielsouzza/momu-go/internal/model"
)

var assessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "List assessments visible under the active role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredential(); err != nil {
			return err
		}
		app.catalog.Fetch(cmd.Context())

		state := app.catalog.State()
		if state.Phase == catalog.PhaseError {
			return fmt.Errorf("could not load assessments: %s", state.Err)
		}
		if len(state.Grouped) == 0 && len(state.Ungrouped) == 0 {
			fmt.Println("no assessments available")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, group := range state.Grouped {
			fmt.Fprintf(w, "%s\t%s\t\n", group.CourseName, group.Period.Semester)
			printAssessments(w, group.Assessments)
		}
		if len(state.Ungrouped) > 0 {
			fmt.Fprintf(w, "other\t\t\n")
			printAssessments(w, state.Ungrouped)
		}
		return w.Flush()
	},
}

func printAssessments(w *tabwriter.Writer, assessments []model.Assessment) {
	for _, a := range assessments {
		fmt.Fprintf(w, "  %d\t%s\t%s\n", a.ID, a.Evaluator.Name, a.Status)
	}
}

var resultCmd = &cobra.Command{
	Use:   "result <assessment-id>",
	Short: "Show one assessment's scored result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredential(); err != nil {
			return err
		}
		assessmentID, err := strconv.Atoi(args[0])
		if err != nil || assessmentID <= 0 {
			return fmt.Errorf("assessment id must be a positive integer: %q", args[0])
		}

		updates, cancel := app.detail.Subscribe()
		defer cancel()
		app.detail.Fetch(cmd.Context(), assessmentID)

		state := awaitDetail(updates, assessmentID)
		if state.Phase == detail.PhaseError {
			return fmt.Errorf("could not load result: %s", state.Err)
		}

		result := state.Result
		fmt.Printf("%s — %s (evaluator: %s)\n", result.Course, result.Faculty, result.Evaluator)
		return renderChart(result.Chart)
	},
}

// awaitDetail consumes snapshots until the terminal state for the requested
// assessment arrives; stale snapshots from earlier requests are skipped.
func awaitDetail(updates <-chan detail.State, assessmentID int) detail.State {
	for state := range updates {
		if state.AssessmentID == assessmentID && state.Phase != detail.PhaseLoading {
			return state
		}
	}
	return detail.State{Phase: detail.PhaseError, Err: "subscription closed"}
}

func renderChart(data model.ChartData) error {
	projection, err := chart.FromChart(data)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, point := range projection.Bar {
		width := int(point.Value / 5)
		if width < 0 {
			width = 0
		}
		bar := strings.Repeat("█", width)
		fmt.Fprintf(w, "%s\t%5.1f\t%s\t%s\n", point.Label, point.Value, bar, point.Color)
	}
	fmt.Fprintf(w, "total\t%d\t\t\n", data.Total)
	return w.Flush()
}

var answersCmd = &cobra.Command{
	Use:   "answers <assessment-id>",
	Short: "Show the per-question answers of an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredential(); err != nil {
			return err
		}
		assessmentID, err := strconv.Atoi(args[0])
		if err != nil || assessmentID <= 0 {
			return fmt.Errorf("assessment id must be a positive integer: %q", args[0])
		}

		updates, cancel := app.detail.SubscribeAnswers()
		defer cancel()
		app.detail.FetchAnswers(cmd.Context(), assessmentID)

		for state := range updates {
			if state.AssessmentID != assessmentID || state.Phase == detail.PhaseLoading {
				continue
			}
			if state.Phase == detail.PhaseError {
				return fmt.Errorf("could not load answers: %s", state.Err)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, answer := range state.Answers {
				fmt.Fprintf(w, "%s\t%5.1f\t%s\n", answer.Question, answer.Score, answer.Comment)
			}
			return w.Flush()
		}
		return nil
	},
}

var consolidatedCmd = &cobra.Command{
	Use:   "consolidated <course-id> <period-id>",
	Short: "Show the aggregate result for a course and period",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredential(); err != nil {
			return err
		}
		courseID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("course id must be an integer: %q", args[0])
		}
		periodID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("period id must be an integer: %q", args[1])
		}

		app.catalog.FetchConsolidated(cmd.Context(), courseID, periodID)
		state := app.catalog.Consolidated()
		if state.Phase == catalog.PhaseError {
			return fmt.Errorf("could not load consolidated result: %s", state.Err)
		}

		result := state.Result
		fmt.Printf("%s — %s (%s)\n", result.Course, result.Faculty, result.Period)
		for _, entry := range result.Assessments {
			names := make([]string, 0, len(entry.Evaluators))
			for _, evaluator := range entry.Evaluators {
				names = append(names, evaluator.Name)
			}
			fmt.Printf("  assessment %d: %s\n", entry.AssessmentID, strings.Join(names, ", "))
		}
		return renderChart(result.Chart)
	},
}
