package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
)

type stubExportService struct {
	out string
	err error
}

func (s *stubExportService) ExportParticipations(_ context.Context, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, s.out)
	return err
}

func (s *stubExportService) ExportActivities(ctx context.Context, w io.Writer) error {
	return s.ExportParticipations(ctx, w)
}

type adminFixture struct {
	users         *stubUserService
	progress      *stubProgressService
	dashboard     *stubDashboardService
	organizations *stubOrganizationService
	verifications *stubVerificationService
	export        *stubExportService
	resp          *stubResponseHandler
	h             *adminHandlers
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:         &stubUserService{},
		progress:      &stubProgressService{chart: &dto.ChartResponse{}},
		dashboard:     &stubDashboardService{},
		organizations: &stubOrganizationService{org: &models.Organization{}},
		verifications: &stubVerificationService{verification: &models.Verification{}},
		export:        &stubExportService{out: "uid,email\nu1,a@b.c\n"},
		resp:          &stubResponseHandler{},
	}
	f.h = NewAdminHandlers(&Deps{
		ResponseHandler: f.resp,
		Validator:       NewValidator(),
		UserSvc:         f.users,
		ProgressSvc:     f.progress,
		DashboardSvc:    f.dashboard,
		OrganizationSvc: f.organizations,
		VerificationSvc: f.verifications,
		ExportSvc:       f.export,
	})
	return f
}

func TestAdminSetExternalHours(t *testing.T) {
	f := newAdminFixture()

	req := httptest.NewRequest(http.MethodPut, "/admin/students/s1/external-hours", strings.NewReader(`{"hours":12.5}`))
	f.h.SetExternalHours(httptest.NewRecorder(), withChiParam(req, "uid", "s1"))

	if f.users.uid != "s1" || f.users.hours != 12.5 {
		t.Fatalf("unexpected call uid=%q hours=%v", f.users.uid, f.users.hours)
	}
	if !f.resp.writeSuccessCalled {
		t.Fatalf("expected success, got %v", f.resp.handleError)
	}
}

func TestAdminSetExternalHours_Negative(t *testing.T) {
	f := newAdminFixture()

	req := httptest.NewRequest(http.MethodPut, "/admin/students/s1/external-hours", strings.NewReader(`{"hours":-3}`))
	f.h.SetExternalHours(httptest.NewRecorder(), withChiParam(req, "uid", "s1"))

	var valErr *errs.ValidationError
	if f.users.called || !errors.As(f.resp.handleError, &valErr) {
		t.Fatalf("expected ValidationError, got %v", f.resp.handleError)
	}
}

func TestAdminStudentProgress(t *testing.T) {
	f := newAdminFixture()

	req := httptest.NewRequest(http.MethodGet, "/admin/students/s1/progress?range=all", nil)
	f.h.StudentProgress(httptest.NewRecorder(), withChiParam(withUID(req, "admin"), "uid", "s1"))

	if f.progress.uid != "s1" || f.progress.rng != "all" {
		t.Fatalf("chart requested for uid=%q range=%q", f.progress.uid, f.progress.rng)
	}
}

func TestAdminReviewOrganization(t *testing.T) {
	f := newAdminFixture()

	req := httptest.NewRequest(http.MethodPost, "/admin/organizations/o1/review", strings.NewReader(`{"approve":true,"note":"ok"}`))
	f.h.ReviewOrganization(httptest.NewRecorder(), withChiParam(withUID(req, "admin-1"), "orgId", "o1"))

	o := f.organizations
	if o.adminUID != "admin-1" || o.orgID != "o1" || !o.approve || o.note != "ok" {
		t.Fatalf("unexpected review args: %+v", o)
	}
}

func TestAdminReviewVerification(t *testing.T) {
	f := newAdminFixture()

	req := httptest.NewRequest(http.MethodPost, "/admin/verifications/v1/review", strings.NewReader(`{"approve":false}`))
	f.h.ReviewVerification(httptest.NewRecorder(), withChiParam(req, "verificationId", "v1"))

	if f.verifications.verificationID != "v1" || f.verifications.approve {
		t.Fatalf("unexpected review args: %+v", f.verifications)
	}
}

func TestAdminListVerificationsAndDashboard(t *testing.T) {
	f := newAdminFixture()

	f.h.ListVerifications(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/verifications", nil))
	if !f.verifications.called || !f.resp.writeSuccessCalled {
		t.Fatal("pending verifications not listed")
	}

	f.dashboard.admin = dto.AdminDashboard{Students: 4}
	f.h.Dashboard(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if d, ok := f.resp.writeSuccessData.(dto.AdminDashboard); !ok || d.Students != 4 {
		t.Fatalf("unexpected dashboard data: %#v", f.resp.writeSuccessData)
	}
}

func TestAdminExportCSV(t *testing.T) {
	f := newAdminFixture()
	rr := httptest.NewRecorder()

	f.h.ExportParticipations(rr, httptest.NewRequest(http.MethodGet, "/admin/export/participations.csv", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "participations.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	if rr.Body.String() != f.export.out {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestAdminExportCSV_Error(t *testing.T) {
	f := newAdminFixture()
	f.export.err = errs.NewDatabaseError("read", "query failed", nil)
	rr := httptest.NewRecorder()

	f.h.ExportActivities(rr, httptest.NewRequest(http.MethodGet, "/admin/export/activities.csv", nil))

	if !f.resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
	if ct := rr.Header().Get("Content-Type"); strings.HasPrefix(ct, "text/csv") {
		t.Fatal("csv headers written on failure")
	}
}
