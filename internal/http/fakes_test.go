package http

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campaign-auth/internal/domain"
	"campaign-auth/internal/service"
	"campaign-auth/internal/upload"
)

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

func (f *fakeStore) Create(_ context.Context, user domain.User) error {
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

func (f *fakeStore) AttachToUser(_ context.Context, userID string, media domain.Media) error {
	f.mediaByUser[userID] = append(f.mediaByUser[userID], media)
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]domain.Media, error) {
	return f.mediaByUser[userID], nil
}

type fakeOtpRepo struct {
	store *fakeStore
}

func (r fakeOtpRepo) Create(_ context.Context, otp domain.OtpVerification) error {
	r.store.otps = append(r.store.otps, otp)
	return nil
}

func (r fakeOtpRepo) GetValid(_ context.Context, email, code string, now time.Time) (domain.OtpVerification, error) {
	for i := len(r.store.otps) - 1; i >= 0; i-- {
		o := r.store.otps[i]
		if o.Email == email && o.Otp == code && !o.Verified && !o.ExpiresAt.Before(now) {
			return o, nil
		}
	}
	return domain.OtpVerification{}, pgx.ErrNoRows
}

func (r fakeOtpRepo) MarkVerified(_ context.Context, id string) error {
	for i := range r.store.otps {
		if r.store.otps[i].ID == id {
			r.store.otps[i].Verified = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r fakeOtpRepo) DeleteUnverified(_ context.Context, email string) error {
	kept := r.store.otps[:0]
	for _, o := range r.store.otps {
		if o.Email != email || o.Verified {
			kept = append(kept, o)
		}
	}
	r.store.otps = kept
	return nil
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
}

func (f *fakeStatsRepo) DashboardStats(_ context.Context) (domain.DashboardStats, error) {
	return f.stats, nil
}

type fakeSender struct {
	otpCode string
	err     error
}

func (f *fakeSender) SendOTP(_ context.Context, _, code string, _ time.Time) error {
	f.otpCode = code
	return f.err
}

func (f *fakeSender) SendApproval(_ context.Context, _, _ string) error { return f.err }

func (f *fakeSender) SendRejection(_ context.Context, _, _, _ string) error { return f.err }

type testEnv struct {
	router *gin.Engine
	store  *fakeStore
	admins *fakeAdminRepo
	sender *fakeSender
	tokens *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	admins := newFakeAdminRepo()
	sender := &fakeSender{}
	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	tokens := service.NewTokenService("test-secret", time.Hour)

	uploads, err := upload.NewDiskStore(t.TempDir(), 5<<20, 5)
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	authSvc := service.NewAuthService(zap.NewNop(), store, fakeOtpRepo{store}, store, admins, sender, hasher, tokens, nil, 5*time.Minute)
	adminSvc := service.NewAdminService(zap.NewNop(), store, store, admins, &fakeStatsRepo{stats: domain.DashboardStats{TotalUsers: 1}}, sender, hasher)

	authH := NewAuthHandler(zap.NewNop(), authSvc, uploads)
	adminH := NewAdminHandler(zap.NewNop(), adminSvc)
	router := NewRouter(zap.NewNop(), authH, adminH, tokens, nil, uploads.Dir())

	return &testEnv{
		router: router,
		store:  store,
		admins: admins,
		sender: sender,
		tokens: tokens,
	}
}

func (e *testEnv) seedUser(t *testing.T, email, password string, verified, approved bool) domain.User {
	t.Helper()
	hash, err := service.NewPasswordHasher(bcrypt.MinCost).Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := domain.User{
		ID:           "u-" + email,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        email,
		PasswordHash: hash,
		IsVerified:   verified,
		IsApproved:   approved,
		CreatedAt:    time.Now().UTC(),
	}
	e.store.usersByID[user.ID] = user
	e.store.usersByEmail[user.Email] = user.ID
	return user
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := e.tokens.Issue("adm-1", "root@example.com", service.RoleAdmin)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}
	return token
}

func (e *testEnv) userToken(t *testing.T) string {
	t.Helper()
	token, err := e.tokens.Issue("u-1", "user@example.com", service.RoleUser)
	if err != nil {
		t.Fatalf("issue user token: %v", err)
	}
	return token
}
