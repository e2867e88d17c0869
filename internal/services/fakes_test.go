package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"semecity/internal/domain"
)

// Hand-written fakes shared by the service tests in this package.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeActivityRepo struct {
	byID      map[string]*domain.Activity
	byToken   map[string]*domain.Activity
	listed    []*domain.Activity
	lastList  domain.ActivityFilter
	createErr error
	updateErr error
	deleted   []string
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{
		byID:    make(map[string]*domain.Activity),
		byToken: make(map[string]*domain.Activity),
	}
}

func (f *fakeActivityRepo) add(a *domain.Activity) {
	f.byID[a.ID] = a
	if a.AccessToken != "" {
		f.byToken[a.AccessToken] = a
	}
}

func (f *fakeActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = "activity-created"
	f.add(a)
	return nil
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeActivityRepo) GetByAccessToken(ctx context.Context, token string) (*domain.Activity, error) {
	if a, ok := f.byToken[token]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeActivityRepo) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	f.lastList = filter
	if filter.None {
		return []*domain.Activity{}, nil
	}
	return f.listed, nil
}

func (f *fakeActivityRepo) Update(ctx context.Context, id string, upd domain.ActivityUpdate) (*domain.Activity, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	cp := *a
	return &cp, nil
}

func (f *fakeActivityRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	createErr error
	verified  []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) add(u *domain.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = "user-created"
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byID {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.ServiceID != "" && u.ServiceID != filter.ServiceID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		if existing, taken := f.byEmail[*upd.Email]; taken && existing.ID != id {
			return nil, domain.ErrDuplicateEmail
		}
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) MarkEmailVerified(ctx context.Context, email string, verifiedAt time.Time) error {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.ErrNotFound
	}
	u.EmailVerified = &verifiedAt
	f.verified = append(f.verified, email)
	return nil
}

type fakeAttendanceRepo struct {
	created    []*domain.Attendance
	createErr  error
	byActivity map[string][]*domain.Attendance
	byEmail    map[string][]*domain.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		byActivity: make(map[string][]*domain.Attendance),
		byEmail:    make(map[string][]*domain.Attendance),
	}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, a *domain.Attendance) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byActivity[a.ActivityID] {
		if existing.Email == a.Email {
			return domain.ErrDuplicateAttendance
		}
	}
	a.ID = "attendance-created"
	f.created = append(f.created, a)
	f.byActivity[a.ActivityID] = append(f.byActivity[a.ActivityID], a)
	return nil
}

func (f *fakeAttendanceRepo) ListByActivityID(ctx context.Context, activityID string) ([]*domain.Attendance, error) {
	return f.byActivity[activityID], nil
}

func (f *fakeAttendanceRepo) ListByEmail(ctx context.Context, email string) ([]*domain.Attendance, error) {
	return f.byEmail[email], nil
}

type fakeFeedbackRepo struct {
	created    []*domain.Feedback
	createErr  error
	byActivity map[string][]*domain.Feedback
	byEmail    map[string][]*domain.Feedback
	stats      *domain.FeedbackStats
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{
		byActivity: make(map[string][]*domain.Feedback),
		byEmail:    make(map[string][]*domain.Feedback),
		stats:      &domain.FeedbackStats{},
	}
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *domain.Feedback) error {
	if f.createErr != nil {
		return f.createErr
	}
	fb.ID = "feedback-created"
	f.created = append(f.created, fb)
	f.byActivity[fb.ActivityID] = append(f.byActivity[fb.ActivityID], fb)
	return nil
}

func (f *fakeFeedbackRepo) ListByActivityID(ctx context.Context, activityID string) ([]*domain.Feedback, error) {
	return f.byActivity[activityID], nil
}

func (f *fakeFeedbackRepo) ListByEmail(ctx context.Context, email string) ([]*domain.Feedback, error) {
	return f.byEmail[email], nil
}

func (f *fakeFeedbackRepo) StatsByActivityID(ctx context.Context, activityID string) (*domain.FeedbackStats, error) {
	return f.stats, nil
}

type fakeRegistrationRepo struct {
	byID       map[string]*domain.Registration
	byUserActs map[string]*domain.Registration
	byUser     map[string][]*domain.Registration
	createErr  error
	deleted    []string
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		byID:       make(map[string]*domain.Registration),
		byUserActs: make(map[string]*domain.Registration),
		byUser:     make(map[string][]*domain.Registration),
	}
}

func (f *fakeRegistrationRepo) add(reg *domain.Registration) {
	f.byID[reg.ID] = reg
	f.byUserActs[reg.UserID+"/"+reg.ActivityID] = reg
	f.byUser[reg.UserID] = append(f.byUser[reg.UserID], reg)
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byUserActs[reg.UserID+"/"+reg.ActivityID]; ok {
		return domain.ErrDuplicateRegistration
	}
	reg.ID = "registration-created"
	f.add(reg)
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if reg, ok := f.byID[id]; ok {
		cp := *reg
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetByUserAndActivity(ctx context.Context, userID, activityID string) (*domain.Registration, error) {
	if reg, ok := f.byUserActs[userID+"/"+activityID]; ok {
		cp := *reg
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	return f.byUser[userID], nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeServiceRepo struct {
	byID      map[string]*domain.Service
	bySlug    map[string]*domain.Service
	deleteErr error
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{
		byID:   make(map[string]*domain.Service),
		bySlug: make(map[string]*domain.Service),
	}
}

func (f *fakeServiceRepo) add(svc *domain.Service) {
	f.byID[svc.ID] = svc
	f.bySlug[svc.Slug] = svc
}

func (f *fakeServiceRepo) Create(ctx context.Context, svc *domain.Service) error {
	if _, ok := f.bySlug[svc.Slug]; ok {
		return domain.ErrDuplicateService
	}
	svc.ID = "service-created"
	f.add(svc)
	return nil
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	if svc, ok := f.byID[id]; ok {
		cp := *svc
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeServiceRepo) List(ctx context.Context) ([]*domain.Service, error) {
	var out []*domain.Service
	for _, svc := range f.byID {
		out = append(out, svc)
	}
	return out, nil
}

func (f *fakeServiceRepo) Update(ctx context.Context, id string, upd domain.ServiceUpdate) (*domain.Service, error) {
	svc, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Slug != nil {
		if existing, taken := f.bySlug[*upd.Slug]; taken && existing.ID != id {
			return nil, domain.ErrDuplicateService
		}
		svc.Slug = *upd.Slug
	}
	if upd.Name != nil {
		svc.Name = *upd.Name
	}
	if upd.Description != nil {
		svc.Description = *upd.Description
	}
	cp := *svc
	return &cp, nil
}

func (f *fakeServiceRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeInvitationRepo struct {
	byToken   map[string]*domain.Invitation
	created   []*domain.Invitation
	pending   map[string]bool
	listed    []*domain.Invitation
	lastList  string
	acceptErr error
	accepted  []string
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{
		byToken: make(map[string]*domain.Invitation),
		pending: make(map[string]bool),
	}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	inv.ID = "invitation-created"
	f.created = append(f.created, inv)
	f.byToken[inv.Token] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	if inv, ok := f.byToken[token]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) HasPending(ctx context.Context, email string, now time.Time) (bool, error) {
	return f.pending[email], nil
}

func (f *fakeInvitationRepo) List(ctx context.Context, serviceID string) ([]*domain.Invitation, error) {
	f.lastList = serviceID
	return f.listed, nil
}

func (f *fakeInvitationRepo) Accept(ctx context.Context, invitationID string, user *domain.User, acceptedAt time.Time) error {
	if f.acceptErr != nil {
		return f.acceptErr
	}
	user.ID = "user-accepted"
	f.accepted = append(f.accepted, invitationID)
	return nil
}

type fakeVerificationRepo struct {
	byToken map[string]*domain.VerificationToken
	created []*domain.VerificationToken
	deleted []string
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{byToken: make(map[string]*domain.VerificationToken)}
}

func (f *fakeVerificationRepo) Create(ctx context.Context, identifier, token string, expiresAt time.Time) error {
	vt := &domain.VerificationToken{Identifier: identifier, Token: token, ExpiresAt: expiresAt}
	f.created = append(f.created, vt)
	f.byToken[token] = vt
	return nil
}

func (f *fakeVerificationRepo) GetByToken(ctx context.Context, token string) (*domain.VerificationToken, error) {
	if t, ok := f.byToken[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeVerificationRepo) Delete(ctx context.Context, token string) error {
	delete(f.byToken, token)
	f.deleted = append(f.deleted, token)
	return nil
}

type fakePasswordHasher struct {
	compareErr error
}

func (f *fakePasswordHasher) Hash(password string) (string, error) { return "hash-" + password, nil }
func (f *fakePasswordHasher) Compare(hash, password string) error  { return f.compareErr }

type fakeTokenIssuer struct {
	token string
	err   error
}

func (f *fakeTokenIssuer) Issue(v domain.Viewer, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.token != "" {
		return f.token, nil
	}
	return "token-" + v.ID, nil
}

type fakeEmailService struct {
	invitations   []*domain.InvitationEmailData
	verifications []*domain.VerificationEmailData
	sendErr       error
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.invitations = append(f.invitations, data)
	return nil
}

func (f *fakeEmailService) SendVerification(ctx context.Context, data *domain.VerificationEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.verifications = append(f.verifications, data)
	return nil
}
