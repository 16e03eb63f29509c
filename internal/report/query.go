package report

import (
	"errors"
	"fmt"

	"github.com/godilite/washroom-dashboard/internal/washroom"
)

// Kind is the report parameter: what the chart counts.
type Kind string

const (
	KindUsage    Kind = "usage"
	KindFeedback Kind = "feedback"
	KindRating   Kind = "rating"
)

var (
	ErrInvalidKind  = errors.New("invalid report kind")
	ErrInvalidQuery = errors.New("invalid report query")
)

// ParseKind validates the wire name of a report kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindUsage, KindFeedback, KindRating:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Query is one report request. It is built per request and never stored.
type Query struct {
	Granularity Granularity
	Date        Date
	Washroom    washroom.Identifier
	Kind        Kind
}

// Validate checks that every field is set and recognised.
func (q Query) Validate() error {
	if _, err := ParseGranularity(string(q.Granularity)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if _, err := ParseKind(string(q.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if q.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidQuery)
	}
	if q.Washroom.Floor == "" || q.Washroom.Type == "" {
		return fmt.Errorf("%w: washroom is required", ErrInvalidQuery)
	}
	return nil
}

// DateValue is the formatted date key for the query's granularity.
func (q Query) DateValue() (string, error) {
	return FormatDateValue(q.Date, q.Granularity)
}

// Params returns the query string parameters of GET /report.
func (q Query) Params() (map[string]string, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	dv, err := q.DateValue()
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"dateType":   string(q.Granularity),
		"dateValue":  dv,
		"washroom":   q.Washroom.String(),
		"reportType": string(q.Kind),
	}, nil
}

// Key is a stable cache key for the query.
func (q Query) Key() string {
	dv, _ := q.DateValue()
	return fmt.Sprintf("%s:%s:%s:%s", q.Kind, q.Granularity, dv, q.Washroom)
}

// Histogram holds rating counts for buckets 0..5.
type Histogram [6]int

// FeedbackSeries is the parallel labels/counts pair of a feedback report.
type FeedbackSeries struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// Result is the raw aggregate returned for a query. Only the field matching
// Kind is populated.
type Result struct {
	Kind     Kind           `json:"kind"`
	Usage    []int          `json:"usage,omitempty"`
	Feedback FeedbackSeries `json:"feedback"`
	Ratings  Histogram      `json:"ratings"`
}
