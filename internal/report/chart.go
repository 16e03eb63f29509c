package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	UsageSeriesLabel    = "People Count"
	FeedbackSeriesLabel = "Problem Count"
	RatingSeriesLabel   = "Rating Count"

	hoursPerDay = 24
)

var ErrSeriesLength = errors.New("series length does not match labels")

// Series is one labelled dataset ready for a bar chart.
type Series struct {
	Label  string   `json:"label"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Labels) }

// RatingChart is the rating distribution plus its summary.
type RatingChart struct {
	Series
	OverallRating  float64 `json:"overallRating"`
	Display        string  `json:"overallRatingDisplay"`
	Tier           Tier    `json:"tier"`
	Recommendation string  `json:"recommendation"`
}

// UsageLabels returns "0:00".."23:00" for a day and "1".."N" for a month.
func UsageLabels(g Granularity, d Date) ([]string, error) {
	var n int
	var label func(int) string
	switch g {
	case Day:
		n = hoursPerDay
		label = func(i int) string { return strconv.Itoa(i) + ":00" }
	case Month:
		u := d.UTCMidnight()
		n = DaysInMonth(u.Year(), u.Month())
		label = func(i int) string { return strconv.Itoa(i + 1) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
	}

	labels := make([]string, n)
	for i := range labels {
		labels[i] = label(i)
	}
	return labels, nil
}

// BuildUsageChart pairs usage counts with hour or day-of-month labels. The
// chart always has one point per label: a short series is zero-filled at the
// end and counts past the last label are dropped. The backend's month series
// is known to come back one day short.
func BuildUsageChart(g Granularity, d Date, counts []int) (Series, error) {
	labels, err := UsageLabels(g, d)
	if err != nil {
		return Series{}, err
	}
	values := make([]int, len(labels))
	copy(values, counts)
	return Series{
		Label:  UsageSeriesLabel,
		Labels: labels,
		Values: values,
	}, nil
}

// BuildFeedbackChart passes the problem categories through unchanged.
func BuildFeedbackChart(f FeedbackSeries) Series {
	s := Series{
		Label:  FeedbackSeriesLabel,
		Labels: []string{},
		Values: []int{},
	}
	s.Labels = append(s.Labels, f.Labels...)
	s.Values = append(s.Values, f.Counts...)
	return s
}

// OverallRating is the weighted mean of a 0..5 histogram, or 0 when empty.
func OverallRating(h Histogram) float64 {
	var total, weighted int
	for score, count := range h {
		total += count
		weighted += count * score
	}
	if total == 0 {
		return 0
	}
	return float64(weighted) / float64(total)
}

// RoundRating rounds to the two decimals shown to the viewer.
func RoundRating(r float64) float64 {
	return math.Round(r*100) / 100
}

// BuildRatingChart labels the six buckets and summarises the distribution.
// The tier is chosen from the rounded rating, the value the viewer sees.
func BuildRatingChart(h Histogram) RatingChart {
	labels := make([]string, len(h))
	values := make([]int, len(h))
	for i, c := range h {
		labels[i] = strconv.Itoa(i)
		values[i] = c
	}

	rounded := RoundRating(OverallRating(h))
	tier := Classify(rounded)
	return RatingChart{
		Series: Series{
			Label:  RatingSeriesLabel,
			Labels: labels,
			Values: values,
		},
		OverallRating:  rounded,
		Display:        strconv.FormatFloat(rounded, 'f', 2, 64),
		Tier:           tier,
		Recommendation: tier.Message(),
	}
}
