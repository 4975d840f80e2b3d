package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type verificationStore interface {
	Create(ctx context.Context, v *models.Verification) error
	Get(ctx context.Context, verificationID string) (*models.Verification, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Verification, error)
	Resolve(ctx context.Context, verificationID, status, note string) (*models.Verification, error)
}

type verificationActivities interface {
	Get(ctx context.Context, uid, activityID string) (*models.Activity, error)
	SetStatus(ctx context.Context, uid, activityID, status string) error
}

type participationVerifier interface {
	SetVerifiedForActivity(ctx context.Context, uid, activityID string, verified bool) error
}

type signingKeySource interface {
	SigningKey(ctx context.Context) ([]byte, error)
}

type mailer interface {
	Send(ctx context.Context, msg dto.Email) error
}

type verificationClaims struct {
	VerificationID string `json:"vid"`
	UID            string `json:"uid"`
	ActivityID     string `json:"aid"`
	jwt.RegisteredClaims
}

// VerificationDeps groups the collaborators of the verification flow.
type VerificationDeps struct {
	Store          verificationStore
	Activities     verificationActivities
	Participations participationVerifier
	Users          userGetter
	Cipher         fieldCipher
	Keys           signingKeySource
	Mailer         mailer
	Cache          chartInvalidator
	BaseURL        string
	TTL            time.Duration
}

type verificationService struct {
	VerificationDeps
	clockNow func() time.Time

	keyMu sync.Mutex
	key   []byte
}

func NewVerificationService(deps VerificationDeps) *verificationService {
	return &verificationService{VerificationDeps: deps, clockNow: time.Now}
}

// Request asks the activity's supervisor to confirm it. The verification is stored
// before the e-mail goes out; if sending fails it stays pending for admin review.
func (s *verificationService) Request(ctx context.Context, uid, activityID string) (dto.VerificationRequested, error) {
	log := logger.FromContext(ctx)

	a, err := s.Activities.Get(ctx, uid, activityID)
	if err != nil {
		return dto.VerificationRequested{}, err
	}
	switch a.Status {
	case models.ActivityVerified:
		return dto.VerificationRequested{}, errs.NewAlreadyExistsError("activity already verified")
	case models.ActivityPending:
		return dto.VerificationRequested{}, errs.NewAlreadyExistsError("verification already pending")
	}
	if a.VerifierEmailCipher == "" {
		return dto.VerificationRequested{}, errs.NewValidationError("activity has no verifier email")
	}

	email, err := s.Cipher.Decrypt(ctx, uid, a.VerifierEmailCipher)
	if err != nil {
		return dto.VerificationRequested{}, err
	}
	student, err := s.Users.GetUser(ctx, uid)
	if err != nil {
		return dto.VerificationRequested{}, err
	}

	now := s.clockNow()
	v := &models.Verification{
		VerificationID: uuid.New().String(),
		UID:            uid,
		ActivityID:     activityID,
		ActivityName:   a.Name,
		Status:         models.VerificationPending,
		RequestedAt:    now,
	}
	token, err := s.sign(ctx, v, now)
	if err != nil {
		return dto.VerificationRequested{}, err
	}
	if err := s.Store.Create(ctx, v); err != nil {
		return dto.VerificationRequested{}, err
	}
	if err := s.Activities.SetStatus(ctx, uid, activityID, models.ActivityPending); err != nil {
		return dto.VerificationRequested{}, err
	}

	msg := verificationEmail(a, student, email, s.confirmLink(token), now.Add(s.TTL))
	if err := s.Mailer.Send(ctx, msg); err != nil {
		log.Error("verification email failed", "verification_id", v.VerificationID, "error", err)
		return dto.VerificationRequested{}, err
	}

	log.Info("verification requested", "verification_id", v.VerificationID, "activity_id", activityID)
	return dto.VerificationRequested{VerificationID: v.VerificationID, Status: v.Status}, nil
}

// Preview loads the verification behind a signed link without resolving it.
func (s *verificationService) Preview(ctx context.Context, token string) (*models.Verification, error) {
	claims, err := s.parse(ctx, token)
	if err != nil {
		return nil, err
	}
	v, err := s.Store.Get(ctx, claims.VerificationID)
	if err != nil {
		return nil, err
	}
	if v.UID != claims.UID || v.ActivityID != claims.ActivityID {
		return nil, errs.NewInvalidTokenError("token does not match verification")
	}
	return v, nil
}

// Confirm resolves a verification from the supervisor's signed link.
func (s *verificationService) Confirm(ctx context.Context, token string, approve bool, note string) (*models.Verification, error) {
	v, err := s.Preview(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, v.VerificationID, approve, note)
}

func (s *verificationService) ListPending(ctx context.Context) ([]*models.Verification, error) {
	return s.Store.ListByStatus(ctx, models.VerificationPending)
}

// Review lets an admin resolve a verification without the supervisor link.
func (s *verificationService) Review(ctx context.Context, verificationID string, approve bool, note string) (*models.Verification, error) {
	return s.resolve(ctx, verificationID, approve, note)
}

func (s *verificationService) resolve(ctx context.Context, verificationID string, approve bool, note string) (*models.Verification, error) {
	status, activityStatus := models.VerificationRejected, models.ActivityRejected
	if approve {
		status, activityStatus = models.VerificationVerified, models.ActivityVerified
	}

	v, err := s.Store.Resolve(ctx, verificationID, status, strings.TrimSpace(note))
	if err != nil {
		v, err = s.resolvedAs(ctx, verificationID, status, err)
		if err != nil {
			return nil, err
		}
	}
	if err := s.Activities.SetStatus(ctx, v.UID, v.ActivityID, activityStatus); err != nil {
		return nil, err
	}
	if err := s.Participations.SetVerifiedForActivity(ctx, v.UID, v.ActivityID, approve); err != nil {
		return nil, err
	}
	invalidateChart(ctx, s.Cache, v.UID)

	logger.FromContext(ctx).Info("verification resolved", "verification_id", verificationID, "status", status)
	return v, nil
}

// resolvedAs lets a retry through when the verification already carries the
// requested outcome, so the activity writes that failed last time are applied again.
func (s *verificationService) resolvedAs(ctx context.Context, verificationID, status string, resolveErr error) (*models.Verification, error) {
	var exists *errs.AlreadyExistsError
	if !errors.As(resolveErr, &exists) {
		return nil, resolveErr
	}
	v, err := s.Store.Get(ctx, verificationID)
	if err != nil {
		return nil, err
	}
	if v.Status != status {
		return nil, resolveErr
	}
	logger.FromContext(ctx).Info("verification already resolved, reapplying", "verification_id", verificationID, "status", status)
	return v, nil
}

func (s *verificationService) signingKey(ctx context.Context) ([]byte, error) {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()
	if s.key != nil {
		return s.key, nil
	}
	key, err := s.Keys.SigningKey(ctx)
	if err != nil {
		return nil, err
	}
	s.key = key
	return key, nil
}

func (s *verificationService) sign(ctx context.Context, v *models.Verification, now time.Time) (string, error) {
	key, err := s.signingKey(ctx)
	if err != nil {
		return "", err
	}
	claims := verificationClaims{
		VerificationID: v.VerificationID,
		UID:            v.UID,
		ActivityID:     v.ActivityID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", errs.NewEncryptionError("failed to sign verification token", err)
	}
	return signed, nil
}

func (s *verificationService) parse(ctx context.Context, token string) (*verificationClaims, error) {
	key, err := s.signingKey(ctx)
	if err != nil {
		return nil, err
	}
	parsed, err := jwt.ParseWithClaims(token, &verificationClaims{}, func(_ *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clockNow))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, errs.NewInvalidTokenError("verification link expired")
	}
	if err != nil {
		return nil, errs.NewInvalidTokenError("invalid verification link")
	}
	claims, ok := parsed.Claims.(*verificationClaims)
	if !ok || !parsed.Valid || claims.VerificationID == "" {
		return nil, errs.NewInvalidTokenError("invalid verification link")
	}
	return claims, nil
}

func (s *verificationService) confirmLink(token string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/verifications/confirm?token=" + url.QueryEscape(token)
}

func verificationEmail(a *models.Activity, student *models.User, to, link string, expires time.Time) dto.Email {
	name := strings.TrimSpace(student.FirstName + " " + student.LastName)
	body := fmt.Sprintf("%s listed you as the supervisor for %q.\n\n"+
		"Please confirm or decline their participation here:\n%s\n\n"+
		"This link expires on %s.", name, a.Name, link, expires.Format("January 2, 2006"))
	return dto.Email{
		ToName:  a.VerifierName,
		ToEmail: to,
		Subject: fmt.Sprintf("Please verify %s's participation in %s", name, a.Name),
		Text:    body,
	}
}
