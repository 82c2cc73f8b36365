// Package model holds the wire-level value types returned by the MOMU API.
// All values are immutable snapshots: a new fetch produces a new value, nothing
// is mutated after construction.
package model

type Profile struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles []Role `json:"roles"`
}

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Evaluator struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type Faculty struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	FacultyID int     `json:"id_faculty"`
	Faculty   Faculty `json:"faculty"`
}

type Period struct {
	ID        int    `json:"id"`
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
	Semester  string `json:"semester"`
	Open      bool   `json:"open"`
}

// Assessment is one row of the catalog listing. Status values come from the
// server and are treated as opaque strings.
type Assessment struct {
	ID          int       `json:"id"`
	EvaluatorID int       `json:"id_evaluator"`
	CourseID    int       `json:"id_course"`
	PeriodID    int       `json:"id_period"`
	Status      string    `json:"status"`
	Evaluator   Evaluator `json:"evaluator"`
	Course      Course    `json:"course"`
}

type AssessmentGroup struct {
	CourseName  string       `json:"course_name"`
	Period      Period       `json:"period"`
	Assessments []Assessment `json:"assessments"`
}

// Catalog is the grouped/ungrouped listing for the active role. A given
// assessment id appears in at most one of the two collections; the server owns
// that invariant and no client-side re-bucketing happens.
type Catalog struct {
	Grouped   []AssessmentGroup `json:"grouped"`
	Ungrouped []Assessment      `json:"ungrouped"`
}

// ChartData carries the raw numeric result. Labels and scores are parallel
// sequences; a length mismatch is a data-contract violation.
type ChartData struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
	Total  int       `json:"total"`
}

type Result struct {
	ID        int       `json:"id"`
	Course    string    `json:"course"`
	Faculty   string    `json:"faculty"`
	Evaluator string    `json:"evaluator"`
	Chart     ChartData `json:"chart"`
}

type Answer struct {
	ID       int     `json:"id"`
	Question string  `json:"question"`
	Score    float64 `json:"score"`
	Comment  string  `json:"comment"`
}

type AssessmentEvaluators struct {
	AssessmentID int         `json:"assessment_id"`
	Evaluators   []Evaluator `json:"evaluator"`
}

// ConsolidatedResult aggregates every evaluator's scores for one course and
// period into a single chart.
type ConsolidatedResult struct {
	Course      string                 `json:"course"`
	Faculty     string                 `json:"faculty"`
	Period      string                 `json:"period"`
	Assessments []AssessmentEvaluators `json:"assessments"`
	Chart       ChartData              `json:"chart"`
}
