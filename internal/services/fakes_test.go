package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

func newTestLogger() *slog.Logger {
	return logger.New("", logger.NewTestHandler)
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

// --- users ---

type fakeUserStore struct {
	users map[string]*models.User
	err   error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.UID] = u
	}
	return f
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *models.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[u.UID]; ok {
		return errs.NewAlreadyExistsError("user already registered")
	}
	f.users[u.UID] = u
	return nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, u *models.User) error {
	if f.err != nil {
		return f.err
	}
	f.users[u.UID] = u
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	return u, nil
}

func (f *fakeUserStore) ListUsers(_ context.Context, role string) ([]*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.User
	for _, u := range f.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (f *fakeUserStore) SetExternalHours(_ context.Context, uid string, hours float64) error {
	u, ok := f.users[uid]
	if !ok {
		return errs.NewNotFoundError("user not found")
	}
	u.ExternalHours = hours
	return nil
}

// --- activities ---

type fakeActivityStore struct {
	items map[string]map[string]*models.Activity
	// setStatusErr fails the next SetStatus call only.
	setStatusErr error
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{items: map[string]map[string]*models.Activity{}}
}

func (f *fakeActivityStore) put(uid string, a *models.Activity) {
	if f.items[uid] == nil {
		f.items[uid] = map[string]*models.Activity{}
	}
	f.items[uid][a.ActivityID] = a
}

func (f *fakeActivityStore) Create(_ context.Context, uid string, a *models.Activity) error {
	f.put(uid, a)
	return nil
}

func (f *fakeActivityStore) Get(_ context.Context, uid, id string) (*models.Activity, error) {
	a, ok := f.items[uid][id]
	if !ok {
		return nil, errs.NewNotFoundError("activity not found")
	}
	return a, nil
}

func (f *fakeActivityStore) List(_ context.Context, uid string) ([]*models.Activity, error) {
	var out []*models.Activity
	for _, a := range f.items[uid] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivityID < out[j].ActivityID })
	return out, nil
}

func (f *fakeActivityStore) Update(_ context.Context, uid string, a *models.Activity) error {
	f.put(uid, a)
	return nil
}

func (f *fakeActivityStore) SetStatus(_ context.Context, uid, id, status string) error {
	if err := f.setStatusErr; err != nil {
		f.setStatusErr = nil
		return err
	}
	a, ok := f.items[uid][id]
	if !ok {
		return errs.NewNotFoundError("activity not found")
	}
	a.Status = status
	return nil
}

func (f *fakeActivityStore) Delete(_ context.Context, uid, id string) error {
	if _, ok := f.items[uid][id]; !ok {
		return errs.NewNotFoundError("activity not found")
	}
	delete(f.items[uid], id)
	return nil
}

func (f *fakeActivityStore) ForEach(ctx context.Context, fn func(uid string, a *models.Activity) error) error {
	uids := make([]string, 0, len(f.items))
	for uid := range f.items {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	for _, uid := range uids {
		list, _ := f.List(ctx, uid)
		for _, a := range list {
			if err := fn(uid, a); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- participations ---

type fakeParticipationStore struct {
	items   map[string][]*models.Participation
	listErr error
}

func newFakeParticipationStore() *fakeParticipationStore {
	return &fakeParticipationStore{items: map[string][]*models.Participation{}}
}

func (f *fakeParticipationStore) Create(_ context.Context, uid string, p *models.Participation) error {
	f.items[uid] = append(f.items[uid], p)
	return nil
}

func (f *fakeParticipationStore) List(_ context.Context, uid string) ([]*models.Participation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items[uid], nil
}

func (f *fakeParticipationStore) Delete(_ context.Context, uid, id string) error {
	for i, p := range f.items[uid] {
		if p.ParticipationID == id {
			f.items[uid] = append(f.items[uid][:i], f.items[uid][i+1:]...)
			return nil
		}
	}
	return errs.NewNotFoundError("participation not found")
}

func (f *fakeParticipationStore) SetVerifiedForActivity(_ context.Context, uid, activityID string, verified bool) error {
	for _, p := range f.items[uid] {
		if p.ActivityID == activityID {
			p.Verified = verified
		}
	}
	return nil
}

func (f *fakeParticipationStore) ForEach(_ context.Context, fn func(uid string, p *models.Participation) error) error {
	uids := make([]string, 0, len(f.items))
	for uid := range f.items {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	for _, uid := range uids {
		for _, p := range f.items[uid] {
			if err := fn(uid, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- goals ---

type fakeGoalStore struct {
	goals map[string]*models.Goal
}

func newFakeGoalStore() *fakeGoalStore {
	return &fakeGoalStore{goals: map[string]*models.Goal{}}
}

func (f *fakeGoalStore) Get(_ context.Context, uid string) (*models.Goal, error) {
	g, ok := f.goals[uid]
	if !ok {
		return nil, errs.NewNotFoundError("goal not found")
	}
	return g, nil
}

func (f *fakeGoalStore) Set(_ context.Context, uid string, g *models.Goal) error {
	f.goals[uid] = g
	return nil
}

func (f *fakeGoalStore) Delete(_ context.Context, uid string) error {
	delete(f.goals, uid)
	return nil
}

// --- organizations ---

type fakeOrganizationStore struct {
	orgs map[string]*models.Organization
}

func newFakeOrganizationStore(orgs ...*models.Organization) *fakeOrganizationStore {
	f := &fakeOrganizationStore{orgs: map[string]*models.Organization{}}
	for _, o := range orgs {
		f.orgs[o.OrgID] = o
	}
	return f
}

func (f *fakeOrganizationStore) Create(_ context.Context, o *models.Organization) error {
	f.orgs[o.OrgID] = o
	return nil
}

func (f *fakeOrganizationStore) Get(_ context.Context, id string) (*models.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return nil, errs.NewNotFoundError("organization not found")
	}
	return o, nil
}

func (f *fakeOrganizationStore) List(_ context.Context, status string) ([]*models.Organization, error) {
	var out []*models.Organization
	for _, o := range f.orgs {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeOrganizationStore) Update(_ context.Context, o *models.Organization) error {
	f.orgs[o.OrgID] = o
	return nil
}

// --- verifications ---

type fakeVerificationStore struct {
	items map[string]*models.Verification
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{items: map[string]*models.Verification{}}
}

func (f *fakeVerificationStore) Create(_ context.Context, v *models.Verification) error {
	f.items[v.VerificationID] = v
	return nil
}

func (f *fakeVerificationStore) Get(_ context.Context, id string) (*models.Verification, error) {
	v, ok := f.items[id]
	if !ok {
		return nil, errs.NewNotFoundError("verification not found")
	}
	return v, nil
}

func (f *fakeVerificationStore) ListByStatus(_ context.Context, status string) ([]*models.Verification, error) {
	var out []*models.Verification
	for _, v := range f.items {
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVerificationStore) Resolve(_ context.Context, id, status, note string) (*models.Verification, error) {
	v, ok := f.items[id]
	if !ok {
		return nil, errs.NewNotFoundError("verification not found")
	}
	if v.Status != models.VerificationPending {
		return nil, errs.NewAlreadyExistsError("verification already resolved")
	}
	now := time.Now()
	v.Status, v.Note, v.ResolvedAt = status, note, &now
	return v, nil
}

// --- collaborators ---

// fakeCipher binds ciphertext to its owner like the KMS cipher does.
type fakeCipher struct{ err error }

func (f fakeCipher) Encrypt(_ context.Context, owner, plaintext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "enc:" + owner + ":" + plaintext, nil
}

func (f fakeCipher) Decrypt(_ context.Context, owner, ciphertext string) (string, error) {
	prefix := "enc:" + owner + ":"
	if !strings.HasPrefix(ciphertext, prefix) {
		return "", errs.NewEncryptionError("owner mismatch", nil)
	}
	return strings.TrimPrefix(ciphertext, prefix), nil
}

type fakeInvalidator struct {
	calls []string
	err   error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, uid string) error {
	f.calls = append(f.calls, uid)
	return f.err
}

type fakeChartCache struct {
	entries map[string]*dto.ChartResponse
	getErr  error
	sets    int
}

func newFakeChartCache() *fakeChartCache {
	return &fakeChartCache{entries: map[string]*dto.ChartResponse{}}
}

func (f *fakeChartCache) Get(_ context.Context, uid, rng, day string) (*dto.ChartResponse, int64, bool, error) {
	if f.getErr != nil {
		return nil, 0, false, f.getErr
	}
	c, ok := f.entries[uid+"|"+rng+"|"+day]
	return c, 0, ok, nil
}

func (f *fakeChartCache) Set(_ context.Context, uid string, _ int64, rng, day string, c *dto.ChartResponse) error {
	f.sets++
	f.entries[uid+"|"+rng+"|"+day] = c
	return nil
}

type fakeKeys struct {
	key   []byte
	calls int
}

func (f *fakeKeys) SigningKey(context.Context) ([]byte, error) {
	f.calls++
	return f.key, nil
}

type fakeMailer struct {
	sent []dto.Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg dto.Email) error {
	f.sent = append(f.sent, msg)
	return f.err
}
