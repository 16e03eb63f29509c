package report

import (
	"fmt"
	"slices"
)

// FallbackRemediation is shown for a problem category with no advice entry.
const FallbackRemediation = "Solution: No standard remediation is recorded for this problem. Inspect the washroom and report the issue to facilities management."

var remediations = map[string]string{
	"RUBBISH BIN FULL":  "Solution: Consider using larger bins. Implement a schedule for regular checks and ensure staff are trained to manage waste effectively.",
	"HAND DRYER BROKEN": "Solution: Consider having a backup hand dryer or paper towels available. Regularly check the hand dryer for issues and perform routine maintenance.",
	"NO SOAP":           "Solution: Implement a routine check to ensure soap dispensers are refilled regularly. Use larger soap dispensers to reduce the frequency of refills and keep spare soap in stock.",
	"SMELLY":            "Solution: Use air fresheners or automatic air sanitizers. Ensure proper ventilation and address any underlying plumbing issues that could cause odors.",
	"NO TOILET PAPER":   "Solution: Increase the frequency of checks to restock toilet paper. Use larger or multiple toilet paper holders. Keep spare rolls accessible to cleaning staff.",
	"WET FLOOR":         "Solution: Identify the source of the water and fix any leaks or plumbing issues. Use non-slip mats and ensure that floors are mopped regularly. Display warning signs to alert users of wet floors.",
	"DIRTY MIRROR":      "Solution: Clean mirrors regularly as part of the routine cleaning schedule. Use appropriate glass cleaners and ensure cleaning staff are aware of the importance of clean mirrors.",
	"DIRTY SINK":        "Solution: Ensure sinks are cleaned regularly as part of the cleaning schedule. Use appropriate cleaning agents and check for clogs or plumbing issues.",
	"DIRTY TOILET BOWL": "Solution: Implement a more frequent cleaning schedule for toilets. Ensure staff are trained to clean effectively and use appropriate cleaning products.",
}

// Remediation looks up advice by exact, case-sensitive category name.
func Remediation(category string) (string, bool) {
	s, ok := remediations[category]
	return s, ok
}

// Categories lists the problem categories that have advice, sorted.
func Categories() []string {
	out := make([]string, 0, len(remediations))
	for k := range remediations {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Problem is one most-frequent category and what to do about it.
type Problem struct {
	Category    string `json:"category"`
	Count       int    `json:"count"`
	Remediation string `json:"remediation"`
	Known       bool   `json:"known"`
}

// MostFrequent returns every category whose count equals the maximum, in
// input order. Ties are all kept.
func MostFrequent(f FeedbackSeries) ([]Problem, error) {
	if len(f.Labels) != len(f.Counts) {
		return nil, fmt.Errorf("%w: %d labels, %d counts", ErrSeriesLength, len(f.Labels), len(f.Counts))
	}
	if len(f.Counts) == 0 {
		return nil, nil
	}

	maxCount := slices.Max(f.Counts)
	var out []Problem
	for i, label := range f.Labels {
		if f.Counts[i] != maxCount {
			continue
		}
		advice, ok := Remediation(label)
		if !ok {
			advice = FallbackRemediation
		}
		out = append(out, Problem{
			Category:    label,
			Count:       maxCount,
			Remediation: advice,
			Known:       ok,
		})
	}
	return out, nil
}

// ProblemHeading is the title above the most-frequent list.
func ProblemHeading(n int) string {
	if n > 1 {
		return "Most Frequent Problems"
	}
	return "Most Frequent Problem"
}
