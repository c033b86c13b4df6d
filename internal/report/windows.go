package report

import (
	"time"

	"poolpulse/internal/domain"
)

// Window names used by the TVL-deltas report.
const (
	WindowIncident     = "incident"
	WindowPostIncident = "post_incident"
	WindowRecent       = "recent_7d"
)

// DeltaWindows holds the boundary timestamps of the three analysis windows:
// the incident itself, incident end to seven days ago, and the trailing week.
// Windows overlap at their shared boundary days on purpose.
type DeltaWindows struct {
	IncidentStart    int64 // start of the incident start day
	IncidentEndStart int64 // start of the incident end day
	IncidentEnd      int64 // end of the incident end day
	SevenDaysAgo     int64 // start of the day seven days before now
	TodayEnd         int64 // end of the current day
}

// NewDeltaWindows derives the window boundaries from the incident dates and
// the current time, all in the local timezone of the given times.
func NewDeltaWindows(incidentStart, incidentEnd, now time.Time) DeltaWindows {
	return DeltaWindows{
		IncidentStart:    startOfDay(incidentStart),
		IncidentEndStart: startOfDay(incidentEnd),
		IncidentEnd:      endOfDay(incidentEnd),
		SevenDaysAgo:     startOfDay(now.AddDate(0, 0, -7)),
		TodayEnd:         endOfDay(now),
	}
}

// Windows returns the three aggregation windows keyed by name. When fewer
// than seven days have passed since the incident ended, the middle window's
// bounds are swapped so it still covers the gap instead of being empty.
func (w DeltaWindows) Windows() map[string]domain.TimeWindow {
	middle := domain.TimeWindow{Start: w.IncidentEndStart, End: w.SevenDaysAgo}
	if w.SevenDaysAgo < w.IncidentEndStart {
		middle = domain.TimeWindow{Start: w.SevenDaysAgo, End: w.IncidentEnd}
	}
	return map[string]domain.TimeWindow{
		WindowIncident:     {Start: w.IncidentStart, End: w.IncidentEnd},
		WindowPostIncident: middle,
		WindowRecent:       {Start: w.SevenDaysAgo, End: w.TodayEnd},
	}
}

func startOfDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Unix()
}

func endOfDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location()).Unix()
}
