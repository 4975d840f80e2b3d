package services

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/helpers"
)

type verificationFixture struct {
	store          *fakeVerificationStore
	activities     *fakeActivityStore
	participations *fakeParticipationStore
	keys           *fakeKeys
	mailer         *fakeMailer
	cache          *fakeInvalidator
	svc            *verificationService
}

func newVerificationFixture() *verificationFixture {
	f := &verificationFixture{
		store:          newFakeVerificationStore(),
		activities:     newFakeActivityStore(),
		participations: newFakeParticipationStore(),
		keys:           &fakeKeys{key: []byte("0123456789abcdef0123456789abcdef")},
		mailer:         &fakeMailer{},
		cache:          &fakeInvalidator{},
	}
	f.activities.put("u1", &models.Activity{
		ActivityID:          "a1",
		Name:                "Food Bank",
		Status:              models.ActivityDraft,
		VerifierName:        "Ms. Lee",
		VerifierEmailCipher: "enc:u1:lee@school.org",
	})
	f.participations.items["u1"] = []*models.Participation{
		{ParticipationID: "p1", ActivityID: "a1", TotalHours: 4},
		{ParticipationID: "p2", TotalHours: 2},
	}
	f.svc = NewVerificationService(VerificationDeps{
		Store:          f.store,
		Activities:     f.activities,
		Participations: f.participations,
		Users:          newFakeUserStore(&models.User{UID: "u1", FirstName: "Jane", LastName: "Doe"}),
		Cipher:         fakeCipher{},
		Keys:           f.keys,
		Mailer:         f.mailer,
		Cache:          f.cache,
		BaseURL:        "https://verify.example.org/",
		TTL:            7 * 24 * time.Hour,
	})
	f.svc.clockNow = fixedClock("2024-05-01T10:00:00Z")
	return f
}

func tokenFromEmail(t *testing.T, text string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "https://verify.example.org/verifications/confirm?") {
			continue
		}
		u, err := url.Parse(line)
		require.NoError(t, err)
		return u.Query().Get("token")
	}
	t.Fatalf("no confirmation link in email:\n%s", text)
	return ""
}

func TestVerificationRequestAndConfirm(t *testing.T) {
	f := newVerificationFixture()
	ctx := helpers.TestCtx()

	requested, err := f.svc.Request(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, requested.Status)
	assert.Equal(t, models.ActivityPending, f.activities.items["u1"]["a1"].Status)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "lee@school.org", msg.ToEmail)
	assert.Equal(t, "Ms. Lee", msg.ToName)
	assert.Contains(t, msg.Subject, "Jane Doe")
	assert.Contains(t, msg.Text, "May 8, 2024")

	token := tokenFromEmail(t, msg.Text)
	v, err := f.svc.Confirm(ctx, token, true, " thanks ")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, v.Status)
	assert.Equal(t, "thanks", v.Note)
	assert.Equal(t, models.ActivityVerified, f.activities.items["u1"]["a1"].Status)
	assert.True(t, f.participations.items["u1"][0].Verified)
	assert.False(t, f.participations.items["u1"][1].Verified)
	assert.Equal(t, []string{"u1"}, f.cache.calls)
	assert.Equal(t, 1, f.keys.calls)

	_, err = f.svc.Confirm(ctx, token, false, "")
	var exists *errs.AlreadyExistsError
	assert.ErrorAs(t, err, &exists)
}

func TestVerificationConfirmExpired(t *testing.T) {
	f := newVerificationFixture()
	ctx := helpers.TestCtx()

	_, err := f.svc.Request(ctx, "u1", "a1")
	require.NoError(t, err)
	token := tokenFromEmail(t, f.mailer.sent[0].Text)

	f.svc.clockNow = fixedClock("2024-05-09T10:00:00Z")
	_, err = f.svc.Confirm(ctx, token, true, "")
	var invalid *errs.InvalidTokenError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "expired")
	assert.Equal(t, models.ActivityPending, f.activities.items["u1"]["a1"].Status)
}

func TestVerificationConfirmTamperedToken(t *testing.T) {
	f := newVerificationFixture()
	ctx := helpers.TestCtx()

	_, err := f.svc.Request(ctx, "u1", "a1")
	require.NoError(t, err)
	token := tokenFromEmail(t, f.mailer.sent[0].Text)

	var invalid *errs.InvalidTokenError
	_, err = f.svc.Confirm(ctx, token[:len(token)-2]+"xx", true, "")
	assert.ErrorAs(t, err, &invalid)

	_, err = f.svc.Confirm(ctx, "not-a-token", true, "")
	assert.ErrorAs(t, err, &invalid)
}

func TestVerificationConfirmMismatch(t *testing.T) {
	f := newVerificationFixture()
	ctx := helpers.TestCtx()

	requested, err := f.svc.Request(ctx, "u1", "a1")
	require.NoError(t, err)
	token := tokenFromEmail(t, f.mailer.sent[0].Text)
	f.store.items[requested.VerificationID].ActivityID = "other"

	_, err = f.svc.Confirm(ctx, token, true, "")
	var invalid *errs.InvalidTokenError
	assert.ErrorAs(t, err, &invalid)
}

func TestVerificationRequestRejected(t *testing.T) {
	cases := map[string]struct {
		mutate func(*models.Activity)
		check  func(error) bool
	}{
		"already verified": {
			mutate: func(a *models.Activity) { a.Status = models.ActivityVerified },
			check:  func(err error) bool { var e *errs.AlreadyExistsError; return errors.As(err, &e) },
		},
		"already pending": {
			mutate: func(a *models.Activity) { a.Status = models.ActivityPending },
			check:  func(err error) bool { var e *errs.AlreadyExistsError; return errors.As(err, &e) },
		},
		"no verifier": {
			mutate: func(a *models.Activity) { a.VerifierEmailCipher = "" },
			check:  func(err error) bool { var e *errs.ValidationError; return errors.As(err, &e) },
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newVerificationFixture()
			tc.mutate(f.activities.items["u1"]["a1"])

			_, err := f.svc.Request(helpers.TestCtx(), "u1", "a1")
			assert.True(t, tc.check(err), "unexpected error: %v", err)
			assert.Empty(t, f.mailer.sent)
			assert.Empty(t, f.store.items)
		})
	}
}

func TestVerificationRequestMailFailureLeavesPending(t *testing.T) {
	f := newVerificationFixture()
	f.mailer.err = errs.NewExternalServiceError("sendgrid", "unavailable", true, nil)

	_, err := f.svc.Request(helpers.TestCtx(), "u1", "a1")
	var external *errs.ExternalServiceError
	require.ErrorAs(t, err, &external)

	pending, err := f.svc.ListPending(helpers.TestCtx())
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, models.ActivityPending, f.activities.items["u1"]["a1"].Status)
}

func TestVerificationAdminReviewReject(t *testing.T) {
	f := newVerificationFixture()
	ctx := helpers.TestCtx()
	f.participations.items["u1"][0].Verified = true

	requested, err := f.svc.Request(ctx, "u1", "a1")
	require.NoError(t, err)

	v, err := f.svc.Review(ctx, requested.VerificationID, false, "could not reach supervisor")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, v.Status)
	assert.Equal(t, models.ActivityRejected, f.activities.items["u1"]["a1"].Status)
	assert.False(t, f.participations.items["u1"][0].Verified)

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestVerificationPreviewFromEmailedLink(t *testing.T) {
	f := newVerificationFixture()
	ctx := helpers.TestCtx()

	requested, err := f.svc.Request(ctx, "u1", "a1")
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)

	var link *url.URL
	for _, line := range strings.Split(f.mailer.sent[0].Text, "\n") {
		if strings.HasPrefix(line, "https://") {
			link, err = url.Parse(line)
			require.NoError(t, err)
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, "/verifications/confirm", link.Path)

	v, err := f.svc.Preview(ctx, link.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, requested.VerificationID, v.VerificationID)
	assert.Equal(t, "Food Bank", v.ActivityName)
	assert.Equal(t, models.VerificationPending, v.Status)
	assert.Equal(t, models.ActivityPending, f.activities.items["u1"]["a1"].Status)
	assert.Empty(t, f.cache.calls)
}

func TestVerificationReviewRetriesActivityWrite(t *testing.T) {
	f := newVerificationFixture()
	ctx := helpers.TestCtx()

	requested, err := f.svc.Request(ctx, "u1", "a1")
	require.NoError(t, err)

	f.activities.setStatusErr = errs.NewDatabaseError("set activity status", "firestore unavailable", errors.New("deadline exceeded"))
	_, err = f.svc.Review(ctx, requested.VerificationID, true, "")
	require.Error(t, err)
	assert.Equal(t, models.VerificationVerified, f.store.items[requested.VerificationID].Status)
	assert.Equal(t, models.ActivityPending, f.activities.items["u1"]["a1"].Status)

	v, err := f.svc.Review(ctx, requested.VerificationID, true, "")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, v.Status)
	assert.Equal(t, models.ActivityVerified, f.activities.items["u1"]["a1"].Status)
	assert.True(t, f.participations.items["u1"][0].Verified)
	assert.Equal(t, []string{"u1"}, f.cache.calls)

	_, err = f.svc.Review(ctx, requested.VerificationID, false, "")
	var exists *errs.AlreadyExistsError
	assert.ErrorAs(t, err, &exists)
}
