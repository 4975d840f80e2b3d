package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/progress"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type participationLister interface {
	List(ctx context.Context, uid string) ([]*models.Participation, error)
}

type goalGetter interface {
	Get(ctx context.Context, uid string) (*models.Goal, error)
}

type chartCache interface {
	Get(ctx context.Context, uid, rng, day string) (*dto.ChartResponse, int64, bool, error)
	Set(ctx context.Context, uid string, version int64, rng, day string, chart *dto.ChartResponse) error
}

type progressService struct {
	participations participationLister
	goals          goalGetter
	users          userGetter
	cache          chartCache
	loc            *time.Location
	clockNow       func() time.Time
}

func NewProgressService(participations participationLister, goals goalGetter, users userGetter, cache chartCache, loc *time.Location) *progressService {
	if loc == nil {
		loc = time.UTC
	}
	return &progressService{
		participations: participations,
		goals:          goals,
		users:          users,
		cache:          cache,
		loc:            loc,
		clockNow:       time.Now,
	}
}

// GetChart returns the cumulative-hours chart of one student. An empty range means 1M.
func (s *progressService) GetChart(ctx context.Context, uid, rangeKeyword string) (*dto.ChartResponse, error) {
	log := logger.FromContext(ctx)

	rng := progress.Range1M
	if rangeKeyword != "" {
		var err error
		rng, err = progress.ParseRange(rangeKeyword)
		if err != nil {
			return nil, errs.NewValidationError(fmt.Sprintf("range must be one of 1W, 1M, 6M, 1Y, all; got %q", rangeKeyword))
		}
	}

	now := s.clockNow()
	day := today(now, s.loc).Format(dateLayout)

	// cacheable stays false when the cache is off or its version is unknown
	var version int64
	cacheable := false
	if s.cache != nil {
		chart, v, ok, err := s.cache.Get(ctx, uid, string(rng), day)
		switch {
		case err != nil:
			log.Warn("progress cache read failed, computing", "error", err)
		case ok:
			log.Debug("progress cache hit", "range", rng)
			return chart, nil
		default:
			version, cacheable = v, true
		}
	}

	chart, err := s.compute(ctx, uid, rng, now)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, uid, version, string(rng), day, chart); err != nil {
			log.Warn("progress cache write failed", "error", err)
		}
	}
	return chart, nil
}

func (s *progressService) compute(ctx context.Context, uid string, rng progress.Range, now time.Time) (*dto.ChartResponse, error) {
	log := logger.FromContext(ctx)

	items, err := s.participations.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	goal, err := s.goals.Get(ctx, uid)
	var notFound *errs.NotFoundError
	if errors.As(err, &notFound) {
		goal, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	external, err := externalHours(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}

	in := progress.Input{
		Range: rng,
		Now:   now.In(s.loc),
	}
	// kept maps engine indices back to stored records for the anchor payload
	kept := make([]*models.Participation, 0, len(items))
	for _, p := range items {
		rec, ok := toEngineRecord(p)
		if !ok {
			log.Warn("participation with unreadable dates skipped", "participation_id", p.ParticipationID,
				"start_date", p.StartDate, "end_date", p.EndDate)
			continue
		}
		in.Participations = append(in.Participations, rec)
		kept = append(kept, p)
	}
	// the flat future segment must agree with the plotted records
	in.CurrentTotalHours = summarize(kept, external).CurrentTotalHours
	if goal != nil {
		in.Goal = &progress.Goal{TargetHours: goal.TargetHours, Description: goal.Description}
		if goal.TargetDate != "" {
			if t, err := time.Parse(dateLayout, goal.TargetDate); err == nil {
				in.Goal.TargetDate = &t
			} else {
				log.Warn("goal target date unreadable, ignored", "target_date", goal.TargetDate)
			}
		}
	}

	series := progress.Compute(ctx, in)
	return toChartResponse(rng, in.CurrentTotalHours, series, kept), nil
}

func toEngineRecord(p *models.Participation) (progress.Participation, bool) {
	start, err := time.Parse(dateLayout, p.StartDate)
	if err != nil {
		return progress.Participation{}, false
	}
	rec := progress.Participation{StartDate: start, TotalHours: p.TotalHours}
	if p.EndDate != "" {
		end, err := time.Parse(dateLayout, p.EndDate)
		if err != nil {
			return progress.Participation{}, false
		}
		rec.EndDate = &end
	}
	return rec, true
}

func toChartResponse(rng progress.Range, current float64, s progress.Series, records []*models.Participation) *dto.ChartResponse {
	out := &dto.ChartResponse{
		Range:             string(rng),
		Start:             s.Start.Format(dateLayout),
		End:               s.End.Format(dateLayout),
		Days:              s.Days,
		Points:            make([]dto.ChartPoint, 0, len(s.Points)),
		MaxValue:          s.MaxValue,
		Scale:             s.Scale,
		CurrentTotalHours: current,
		Anchors:           make([]dto.ChartAnchor, 0, len(s.Anchors)),
		Empty:             s.Empty,
	}
	if out.CurrentTotalHours < 0 {
		out.CurrentTotalHours = 0
	}
	for _, p := range s.Points {
		out.Points = append(out.Points, dto.ChartPoint{Date: p.Date.Format(dateLayout), Hours: p.Hours})
	}
	for _, a := range s.Anchors {
		rec := records[a.Index]
		out.Anchors = append(out.Anchors, dto.ChartAnchor{
			Date:            a.Date.Format(dateLayout),
			Hours:           a.Hours,
			ParticipationID: rec.ParticipationID,
			Title:           rec.Title,
		})
	}
	if g := s.Goal; g != nil {
		out.Goal = &dto.ChartGoal{TargetHours: g.TargetHours, Description: g.Description}
		if g.TargetDate != nil {
			out.Goal.TargetDate = g.TargetDate.Format(dateLayout)
		}
		if g.Marker != nil {
			out.Goal.Marker = g.Marker.Format(dateLayout)
		}
		if g.Intersection != nil {
			out.Goal.Intersection = &dto.ChartPoint{Date: g.Intersection.Date.Format(dateLayout), Hours: g.Intersection.Hours}
		}
	}
	return out
}
