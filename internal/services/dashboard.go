package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
)

const recentWindowDays = 30

type activityLister interface {
	List(ctx context.Context, uid string) ([]*models.Activity, error)
}

type userLister interface {
	ListUsers(ctx context.Context, role string) ([]*models.User, error)
}

type activityWalker interface {
	ForEach(ctx context.Context, fn func(uid string, a *models.Activity) error) error
}

type participationWalker interface {
	ForEach(ctx context.Context, fn func(uid string, p *models.Participation) error) error
}

type organizationLister interface {
	List(ctx context.Context, status string) ([]*models.Organization, error)
}

type verificationLister interface {
	ListByStatus(ctx context.Context, status string) ([]*models.Verification, error)
}

// DashboardSources groups the stores the dashboards read from.
type DashboardSources struct {
	Users             userGetter
	Students          userLister
	Activities        activityLister
	Participations    participationLister
	Goals             goalGetter
	AllActivities     activityWalker
	AllParticipations participationWalker
	Organizations     organizationLister
	Verifications     verificationLister
}

type dashboardService struct {
	src      DashboardSources
	loc      *time.Location
	clockNow func() time.Time
}

func NewDashboardService(src DashboardSources, loc *time.Location) *dashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{src: src, loc: loc, clockNow: time.Now}
}

func (s *dashboardService) GetStudentDashboard(ctx context.Context, uid string) (dto.StudentDashboard, error) {
	out := dto.StudentDashboard{
		ActivitiesByStatus: map[string]int{},
		ActivitiesByCat:    map[string]int{},
	}

	activities, err := s.src.Activities.List(ctx, uid)
	if err != nil {
		return out, err
	}
	for _, a := range activities {
		out.ActivitiesByStatus[a.Status]++
		out.ActivitiesByCat[a.Category]++
	}
	out.Activities = len(activities)

	items, err := s.src.Participations.List(ctx, uid)
	if err != nil {
		return out, err
	}
	external, err := externalHours(ctx, s.src.Users, uid)
	if err != nil {
		return out, err
	}
	out.Hours = summarize(items, external)

	day := today(s.clockNow(), s.loc)
	from := day.AddDate(0, 0, -recentWindowDays)
	for _, p := range items {
		if p.TotalHours <= 0 {
			continue
		}
		// a participation counts toward the day it was completed
		completed := p.EndDate
		if completed == "" {
			completed = p.StartDate
		}
		d, err := time.Parse(dateLayout, completed)
		if err != nil {
			continue
		}
		if d.After(from) && !d.After(day) {
			out.HoursLast30Days += p.TotalHours
		}
	}

	goal, err := s.src.Goals.Get(ctx, uid)
	var notFound *errs.NotFoundError
	switch {
	case errors.As(err, &notFound):
	case err != nil:
		return out, err
	default:
		out.Goal = goalProgress(goal, out.Hours.CurrentTotalHours, day)
	}
	return out, nil
}

func goalProgress(g *models.Goal, current float64, day time.Time) *dto.GoalProgress {
	if g == nil || g.TargetHours <= 0 {
		return nil
	}
	out := &dto.GoalProgress{
		TargetHours: g.TargetHours,
		TargetDate:  g.TargetDate,
		Percent:     math.Min(100, math.Round(current/g.TargetHours*1000)/10),
	}
	if t, err := time.Parse(dateLayout, g.TargetDate); err == nil {
		remaining := max(0, int(t.Sub(day).Hours()/24))
		out.DaysRemaining = &remaining
	}
	return out
}

func (s *dashboardService) GetAdminDashboard(ctx context.Context) (dto.AdminDashboard, error) {
	out := dto.AdminDashboard{ActivitiesByCategory: map[string]int{}}

	students, err := s.src.Students.ListUsers(ctx, models.RoleStudent)
	if err != nil {
		return out, err
	}
	out.Students = len(students)
	for _, u := range students {
		out.TotalHours += u.ExternalHours
	}

	err = s.src.AllActivities.ForEach(ctx, func(_ string, a *models.Activity) error {
		out.Activities++
		out.ActivitiesByCategory[a.Category]++
		if a.Status == models.ActivityVerified {
			out.VerifiedActivities++
		}
		return nil
	})
	if err != nil {
		return out, err
	}

	err = s.src.AllParticipations.ForEach(ctx, func(_ string, p *models.Participation) error {
		if p.TotalHours <= 0 {
			return nil
		}
		out.TotalHours += p.TotalHours
		if p.Verified {
			out.VerifiedHours += p.TotalHours
		}
		return nil
	})
	if err != nil {
		return out, err
	}

	orgs, err := s.src.Organizations.List(ctx, "")
	if err != nil {
		return out, err
	}
	for _, o := range orgs {
		switch o.Status {
		case models.OrganizationPending:
			out.PendingOrganizations++
		case models.OrganizationApproved:
			out.ApprovedOrganizations++
		}
	}

	pending, err := s.src.Verifications.ListByStatus(ctx, models.VerificationPending)
	if err != nil {
		return out, err
	}
	out.PendingVerifications = len(pending)
	return out, nil
}
