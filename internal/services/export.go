package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

var (
	participationHeader = []string{"uid", "email", "participationId", "activityId", "title", "startDate", "endDate", "totalHours", "source", "verified"}
	activityHeader      = []string{"uid", "email", "activityId", "name", "category", "position", "organizationId", "startDate", "endDate", "hoursPerWeek", "weeksPerYear", "status", "verifierName"}
)

type exportService struct {
	users          userLister
	activities     activityWalker
	participations participationWalker
}

func NewExportService(users userLister, activities activityWalker, participations participationWalker) *exportService {
	return &exportService{users: users, activities: activities, participations: participations}
}

// ExportParticipations writes every student's hours log as CSV with a header row.
func (s *exportService) ExportParticipations(ctx context.Context, w io.Writer) error {
	emails, err := s.emails(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(participationHeader); err != nil {
		return err
	}

	rows := 0
	err = s.participations.ForEach(ctx, func(uid string, p *models.Participation) error {
		rows++
		return cw.Write([]string{
			uid,
			emails[uid],
			p.ParticipationID,
			p.ActivityID,
			p.Title,
			p.StartDate,
			p.EndDate,
			formatHours(p.TotalHours),
			p.Source,
			strconv.FormatBool(p.Verified),
		})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("participations exported", "rows", rows)
	return nil
}

func (s *exportService) ExportActivities(ctx context.Context, w io.Writer) error {
	emails, err := s.emails(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(activityHeader); err != nil {
		return err
	}

	rows := 0
	err = s.activities.ForEach(ctx, func(uid string, a *models.Activity) error {
		rows++
		return cw.Write([]string{
			uid,
			emails[uid],
			a.ActivityID,
			a.Name,
			a.Category,
			a.Position,
			a.OrganizationID,
			a.StartDate,
			a.EndDate,
			formatHours(a.HoursPerWeek),
			strconv.Itoa(a.WeeksPerYear),
			a.Status,
			a.VerifierName,
		})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("activities exported", "rows", rows)
	return nil
}

func (s *exportService) emails(ctx context.Context) (map[string]string, error) {
	users, err := s.users.ListUsers(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.UID] = u.Email
	}
	return out, nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
