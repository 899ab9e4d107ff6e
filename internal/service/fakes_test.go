package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"campaign-auth/internal/domain"
)

// fakeStore implementa UserRepository, OtpRepository y MediaRepository sobre
// mapas en memoria, con Purge atómico por construcción.
type fakeStore struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	otps         []domain.OtpVerification
	mediaByUser  map[string][]domain.Media
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		mediaByUser:  make(map[string][]domain.Media),
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

func (f *fakeStore) Create(_ context.Context, user domain.User) error {
	if _, ok := f.usersByEmail[user.Email]; ok {
		return uniqueViolation()
	}
	f.usersByID[user.ID] = user
	f.usersByEmail[user.Email] = user.ID
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := f.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := f.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return f.GetByID(context.Background(), id)
}

func (f *fakeStore) SetVerified(_ context.Context, id string) error {
	user, ok := f.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsVerified = true
	f.usersByID[id] = user
	return nil
}

func (f *fakeStore) SetApproved(_ context.Context, id string) error {
	user, ok := f.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsApproved = true
	f.usersByID[id] = user
	return nil
}

func (f *fakeStore) ListPending(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, u := range f.usersByID {
		if u.IsVerified && !u.IsApproved && u.DeletedAt == nil {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, u := range f.usersByID {
		if u.DeletedAt == nil {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (f *fakeStore) Purge(_ context.Context, user domain.User) error {
	if _, ok := f.usersByID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.mediaByUser, user.ID)
	kept := f.otps[:0]
	for _, o := range f.otps {
		if o.Email != user.Email {
			kept = append(kept, o)
		}
	}
	f.otps = kept
	delete(f.usersByID, user.ID)
	delete(f.usersByEmail, user.Email)
	return nil
}

func (f *fakeStore) CreateOtp(_ context.Context, otp domain.OtpVerification) error {
	f.otps = append(f.otps, otp)
	return nil
}

func (f *fakeStore) GetValid(_ context.Context, email, code string, now time.Time) (domain.OtpVerification, error) {
	var found *domain.OtpVerification
	for i := range f.otps {
		o := f.otps[i]
		if o.Email != email || o.Otp != code || o.Verified || o.ExpiresAt.Before(now) {
			continue
		}
		if found == nil || o.CreatedAt.After(found.CreatedAt) {
			found = &f.otps[i]
		}
	}
	if found == nil {
		return domain.OtpVerification{}, pgx.ErrNoRows
	}
	return *found, nil
}

func (f *fakeStore) MarkVerified(_ context.Context, id string) error {
	for i := range f.otps {
		if f.otps[i].ID == id {
			f.otps[i].Verified = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeStore) DeleteUnverified(_ context.Context, email string) error {
	kept := f.otps[:0]
	for _, o := range f.otps {
		if o.Email != email || o.Verified {
			kept = append(kept, o)
		}
	}
	f.otps = kept
	return nil
}

func (f *fakeStore) AttachToUser(_ context.Context, userID string, media domain.Media) error {
	f.mediaByUser[userID] = append(f.mediaByUser[userID], media)
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]domain.Media, error) {
	return f.mediaByUser[userID], nil
}

// otpRepoAdapter separa el método Create de OTP del de usuarios, ya que ambos
// contratos lo nombran igual.
type otpRepoAdapter struct {
	store *fakeStore
}

func (a otpRepoAdapter) Create(ctx context.Context, otp domain.OtpVerification) error {
	return a.store.CreateOtp(ctx, otp)
}

func (a otpRepoAdapter) GetValid(ctx context.Context, email, code string, now time.Time) (domain.OtpVerification, error) {
	return a.store.GetValid(ctx, email, code, now)
}

func (a otpRepoAdapter) MarkVerified(ctx context.Context, id string) error {
	return a.store.MarkVerified(ctx, id)
}

func (a otpRepoAdapter) DeleteUnverified(ctx context.Context, email string) error {
	return a.store.DeleteUnverified(ctx, email)
}

type fakeAdminRepo struct {
	byID    map[string]domain.Admin
	byEmail map[string]string
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{
		byID:    make(map[string]domain.Admin),
		byEmail: make(map[string]string),
	}
}

func (f *fakeAdminRepo) Create(_ context.Context, admin domain.Admin) error {
	if _, ok := f.byEmail[admin.Email]; ok {
		return uniqueViolation()
	}
	f.byID[admin.ID] = admin
	f.byEmail[admin.Email] = admin.ID
	return nil
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (domain.Admin, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return domain.Admin{}, pgx.ErrNoRows
	}
	return f.byID[id], nil
}

func (f *fakeAdminRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeAdminRepo) List(_ context.Context) ([]domain.Admin, error) {
	var admins []domain.Admin
	for _, a := range f.byID {
		if a.DeletedAt == nil {
			admins = append(admins, a)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].CreatedAt.After(admins[j].CreatedAt) })
	return admins, nil
}

type fakeStatsRepo struct {
	stats domain.DashboardStats
	err   error
}

func (f *fakeStatsRepo) DashboardStats(_ context.Context) (domain.DashboardStats, error) {
	return f.stats, f.err
}

type fakeSender struct {
	otpTo           string
	otpCode         string
	otpExpires      time.Time
	approvalTo      string
	approvalName    string
	rejectionTo     string
	rejectionReason string
	err             error
}

func (f *fakeSender) SendOTP(_ context.Context, toEmail, code string, expiresAt time.Time) error {
	f.otpTo = toEmail
	f.otpCode = code
	f.otpExpires = expiresAt
	return f.err
}

func (f *fakeSender) SendApproval(_ context.Context, toEmail, firstName string) error {
	f.approvalTo = toEmail
	f.approvalName = firstName
	return f.err
}

func (f *fakeSender) SendRejection(_ context.Context, toEmail, firstName, reason string) error {
	f.rejectionTo = toEmail
	f.rejectionReason = reason
	return f.err
}
