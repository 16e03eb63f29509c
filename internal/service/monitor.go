package service

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	"github.com/godilite/washroom-dashboard/internal/washroom"
)

const (
	NoConditions  = "Everything is good."
	NoRatingShown = "-"
)

// MonitorData is everything the monitoring table is built from.
type MonitorData struct {
	Configurations []models.Configuration
	Problems       []models.Problem
	Usages         []models.Usage
	Stats          []models.WashroomStat
}

// BuildMonitorRows returns one row per configured washroom of type t,
// ordered by floor.
func BuildMonitorRows(data MonitorData, t washroom.ToiletType) []MonitorRow {
	configs := make([]models.Configuration, 0, len(data.Configurations))
	for _, c := range data.Configurations {
		if c.ToiletType == string(t) {
			configs = append(configs, c)
		}
	}
	slices.SortStableFunc(configs, func(a, b models.Configuration) int {
		return washroom.Compare(a.Identifier(), b.Identifier())
	})

	rows := make([]MonitorRow, 0, len(configs))
	for _, c := range configs {
		id := c.Identifier().String()
		row := MonitorRow{
			ConfigurationID: c.ID,
			Floor:           c.Floor,
			ToiletType:      c.ToiletType,
			Washroom:        id,
			OverallRating:   NoRatingShown,
		}

		for _, u := range data.Usages {
			if u.Washroom == id {
				row.TotalUsage = u.TotalUsage
				break
			}
		}
		for _, st := range data.Stats {
			if st.Floor == c.Floor && st.ToiletType == c.ToiletType {
				row.TotalFeedback = st.TotalFeedback
				row.OverallRating = strconv.FormatFloat(st.OverallRating, 'f', -1, 64)
				break
			}
		}

		row.Conditions = conditions(data.Problems, c)
		row.ActionMessage = ActionMessage(c.ToiletType, c.Floor, row.Conditions)
		rows = append(rows, row)
	}
	return rows
}

// ActionMessage is the text sent to cleaning staff for one washroom.
func ActionMessage(toiletType, floor, conditions string) string {
	return fmt.Sprintf("Hey %s %s has the following issues: %s. Please take action ASAP.", toiletType, floor, conditions)
}

func conditions(problems []models.Problem, c models.Configuration) string {
	var open []string
	for _, p := range problems {
		if p.Solved || p.Floor != c.Floor || p.ToiletType != c.ToiletType {
			continue
		}
		open = append(open, p.Description)
	}
	if len(open) == 0 {
		return NoConditions
	}
	return strings.Join(open, ", ")
}
