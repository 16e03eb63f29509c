package service

import (
	"github.com/godilite/washroom-dashboard/internal/report"
)

// ReportView is a chart ready to render. Exactly one of Usage, Feedback and
// Rating is set, according to Kind.
type ReportView struct {
	Kind        report.Kind         `json:"kind"`
	Granularity report.Granularity  `json:"dateType"`
	DateValue   string              `json:"dateValue"`
	Washroom    string              `json:"washroom"`
	Usage       *report.Series      `json:"usage,omitempty"`
	Feedback    *FeedbackView       `json:"feedback,omitempty"`
	Rating      *report.RatingChart `json:"rating,omitempty"`
}

// FeedbackView is the problem chart and its most frequent categories.
type FeedbackView struct {
	Chart    report.Series    `json:"chart"`
	Heading  string           `json:"heading,omitempty"`
	Problems []report.Problem `json:"problems"`
}

// Chart returns the series of whichever report kind is set.
func (v ReportView) Chart() report.Series {
	switch {
	case v.Usage != nil:
		return *v.Usage
	case v.Feedback != nil:
		return v.Feedback.Chart
	case v.Rating != nil:
		return v.Rating.Series
	}
	return report.Series{}
}

// MonitorRow is one line of the monitoring table.
type MonitorRow struct {
	ConfigurationID string `json:"id"`
	Floor           string `json:"floor"`
	ToiletType      string `json:"toiletType"`
	Washroom        string `json:"washroom"`
	TotalUsage      int    `json:"totalUsage"`
	TotalFeedback   int    `json:"totalFeedback"`
	OverallRating   string `json:"overallRating"`
	Conditions      string `json:"conditions"`
	ActionMessage   string `json:"actionMessage"`
}
