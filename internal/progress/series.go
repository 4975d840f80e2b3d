// Package progress turns a student's participation history into the cumulative-hours
// series drawn on the progress chart. It works in date/value space only; mapping to
// pixels is left to the client.
package progress

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

const (
	minAllDays = 30 // RangeAll spans at least this many days, even when the first record is more recent
	scaleFloor = 20.0
	headroom   = 1.3
)

type Participation struct {
	StartDate  time.Time
	EndDate    *time.Time // nil: single-day or still open, treated as StartDate
	TotalHours float64
}

type Goal struct {
	TargetHours float64
	TargetDate  *time.Time
	Description string
}

type Input struct {
	Participations    []Participation
	Goal              *Goal
	CurrentTotalHours float64
	Range             Range
	Now               time.Time
}

type Window struct {
	Start time.Time
	End   time.Time
	Days  int
}

type Point struct {
	Date  time.Time
	Hours float64
}

// Anchor is a hover target at the day a participation completes.
type Anchor struct {
	Date  time.Time
	Hours float64
	Index int // position of the record in Input.Participations
}

// GoalLine describes the horizontal target reference and, when the target date
// falls inside the window, the vertical deadline marker and their intersection.
type GoalLine struct {
	TargetHours  float64
	TargetDate   *time.Time
	Description  string
	Marker       *time.Time
	Intersection *Point
}

type Series struct {
	Window
	Points   []Point
	MaxValue float64
	Scale    float64
	Goal     *GoalLine
	Anchors  []Anchor
	Empty    bool
}

type record struct {
	start time.Time
	end   time.Time
	hours float64
	index int
}

// Compute builds the series for one rendering request. It never fails: malformed
// records are normalized and reported on the context logger.
func Compute(ctx context.Context, in Input) Series {
	log := logger.FromContext(ctx)
	today := dayOf(in.Now)

	rng := in.Range
	if !rng.Valid() {
		log.Warn("unknown chart range, using default", "range", string(rng), "default", string(Range1M))
		rng = Range1M
	}

	records := normalizeRecords(log, in.Participations)
	goal := normalizeGoal(log, in.Goal)
	current := in.CurrentTotalHours
	if current < 0 {
		log.Warn("negative current total clamped", "current_total_hours", current)
		current = 0
	}

	w := buildWindow(rng, records, goal, today)

	s := Series{Window: w, Points: make([]Point, 0, w.Days+1)}
	for i := 0; i <= w.Days; i++ {
		d := w.Start.AddDate(0, 0, i)
		v := valueAt(d, today, current, records)
		if v > s.MaxValue {
			s.MaxValue = v
		}
		s.Points = append(s.Points, Point{Date: d, Hours: v})
	}
	s.Empty = s.MaxValue == 0

	var target float64
	if goal != nil {
		target = goal.TargetHours
		s.Goal = goalLine(goal, w)
	}
	s.Scale = math.Max(math.Max(s.MaxValue, target), scaleFloor) * headroom
	s.Anchors = anchors(records, w)
	return s
}

func normalizeRecords(log *slog.Logger, in []Participation) []record {
	out := make([]record, 0, len(in))
	for i, p := range in {
		r := record{start: dayOf(p.StartDate), hours: p.TotalHours, index: i}
		r.end = r.start
		if p.EndDate != nil {
			r.end = dayOf(*p.EndDate)
		}
		if r.end.Before(r.start) {
			log.Warn("participation ends before it starts, clamping end date",
				"index", i, "start_date", r.start, "end_date", r.end)
			r.end = r.start
		}
		if r.hours < 0 {
			log.Warn("negative participation hours clamped", "index", i, "total_hours", r.hours)
			r.hours = 0
		}
		out = append(out, r)
	}
	return out
}

func normalizeGoal(log *slog.Logger, g *Goal) *Goal {
	if g == nil {
		return nil
	}
	if g.TargetHours <= 0 {
		log.Warn("goal without positive target ignored", "target_hours", g.TargetHours)
		return nil
	}
	return g
}

func buildWindow(rng Range, records []record, goal *Goal, today time.Time) Window {
	days := rng.Days()
	if rng == RangeAll {
		days = 0
		if len(records) > 0 {
			earliest := records[0].start
			for _, r := range records[1:] {
				if r.start.Before(earliest) {
					earliest = r.start
				}
			}
			days = ceilDays(earliest, today)
		}
		if days < minAllDays {
			days = minAllDays
		}
	}

	end := today
	if goal != nil && goal.TargetDate != nil {
		if target := dayOf(*goal.TargetDate); target.After(today) {
			days += ceilDays(today, target)
			end = target
		}
	}
	return Window{Start: end.AddDate(0, 0, -days), End: end, Days: days}
}

// valueAt recomputes the cumulative total for day d from all records. Days after
// today show the authoritative current total rather than a projection.
func valueAt(d, today time.Time, current float64, records []record) float64 {
	if d.After(today) {
		return current
	}
	var total float64
	for _, r := range records {
		total += r.contribution(d)
	}
	return total
}

func (r record) contribution(d time.Time) float64 {
	switch {
	case r.hours <= 0:
		return 0
	case d.Before(r.start):
		return 0
	case !d.Before(r.end):
		return r.hours
	}
	span := math.Max(1, float64(ceilDays(r.start, r.end)))
	return r.hours * float64(ceilDays(r.start, d)) / span
}

func goalLine(g *Goal, w Window) *GoalLine {
	gl := &GoalLine{
		TargetHours: g.TargetHours,
		TargetDate:  g.TargetDate,
		Description: g.Description,
	}
	if g.TargetDate == nil {
		return gl
	}
	t := dayOf(*g.TargetDate)
	if t.Before(w.Start) || t.After(w.End) {
		return gl
	}
	gl.Marker = &t
	gl.Intersection = &Point{Date: t, Hours: g.TargetHours}
	return gl
}

// anchors places one hover point per completed record inside the window. The value
// counts every record finished on or before the same day, so records sharing an end
// date report the same total.
func anchors(records []record, w Window) []Anchor {
	var out []Anchor
	for _, r := range records {
		if r.hours <= 0 || r.end.Before(w.Start) || r.end.After(w.End) {
			continue
		}
		var cum float64
		for _, o := range records {
			if o.hours > 0 && !o.end.After(r.end) {
				cum += o.hours
			}
		}
		out = append(out, Anchor{Date: r.end, Hours: cum, Index: r.index})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].Index < out[j].Index
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ceilDays(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}
