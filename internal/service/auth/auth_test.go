package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetflow-service/internal/domain/user"
	xerrors "fleetflow-service/internal/pkg/errors"
	"fleetflow-service/internal/pkg/jwt"
	"fleetflow-service/internal/pkg/ratelimit"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[string]*user.DriverInfo // by email
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.DriverInfo), nextID: 1}
}

func (r *fakeUserRepo) CreateDriver(_ context.Context, u *user.User, d *user.DriverProfile) error {
	if _, ok := r.users[u.Email]; ok {
		return xerrors.ErrConflict
	}
	u.ID = r.nextID
	r.nextID++
	d.UserID = u.ID
	r.users[u.Email] = &user.DriverInfo{User: *u, Driver: d}
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.DriverInfo, error) {
	info, ok := r.users[email]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return info, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*user.DriverInfo, error) {
	for _, info := range r.users {
		if info.ID == id {
			return info, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeUserRepo) UpdatePasswordByEmail(_ context.Context, email, hash string) error {
	info, ok := r.users[email]
	if !ok {
		return xerrors.ErrNotFound
	}
	info.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, _ int64) error { return nil }
func (r *fakeUserRepo) ListDrivers(_ context.Context, _ string) ([]user.DriverInfo, error) {
	return nil, nil
}
func (r *fakeUserRepo) UpdateDriverProfile(_ context.Context, _ int64, _ *user.UpdateDriverRequest) error {
	return nil
}
func (r *fakeUserRepo) CountDrivers(_ context.Context) (int64, error) { return 0, nil }

type fakeTokenRepo struct {
	tokens []*user.ResetToken
}

func (r *fakeTokenRepo) Create(_ context.Context, t *user.ResetToken) error {
	t.ID = int64(len(r.tokens) + 1)
	t.CreatedAt = time.Now()
	r.tokens = append(r.tokens, t)
	return nil
}

func (r *fakeTokenRepo) FindValid(_ context.Context, email, otp string) (*user.ResetToken, error) {
	for i := len(r.tokens) - 1; i >= 0; i-- {
		t := r.tokens[i]
		if t.Email == email && t.OTP == otp && !t.Used && t.ExpiresAt.After(time.Now()) {
			return t, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeTokenRepo) MarkUsed(_ context.Context, id int64) error {
	for _, t := range r.tokens {
		if t.ID == id {
			t.Used = true
			return nil
		}
	}
	return xerrors.ErrNotFound
}

type fakeMailer struct {
	sent []string // recipient emails
	fail bool
}

func (m *fakeMailer) SendPasswordResetOTP(to, _, _ string, _ time.Time) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, to)
	return nil
}

func newTestService(t *testing.T, users *fakeUserRepo, tokens *fakeTokenRepo, mailer *fakeMailer) *AuthService {
	t.Helper()
	mgr, err := jwt.NewManager(jwt.Config{
		Secret:   "test-secret",
		Issuer:   "fleetflow",
		Audience: "fleetflow-users",
		TTL:      time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthService(users, tokens, mgr, ratelimit.NewLimiter(nil), mailer, zap.NewNop())
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo.users[email] = &user.DriverInfo{User: user.User{
		ID:           repo.nextID,
		FullName:     "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}}
	repo.nextID++
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "manager@fleet.test", "Str0ngpass", user.RoleFleetManager)
	svc := newTestService(t, users, &fakeTokenRepo{}, &fakeMailer{})
	ctx := context.Background()

	resp, err := svc.Login(ctx, "1.2.3.4", &user.LoginRequest{Email: "manager@fleet.test", Password: "Str0ngpass"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.Email != "manager@fleet.test" {
		t.Fatalf("response user = %+v", resp.User)
	}

	if _, err := svc.Login(ctx, "1.2.3.4", &user.LoginRequest{Email: "manager@fleet.test", Password: "wrong"}); !xerrors.Is(err, xerrors.ErrUnauthorized) {
		t.Fatalf("wrong password: want unauthorized, got %v", err)
	}
	if _, err := svc.Login(ctx, "1.2.3.4", &user.LoginRequest{Email: "ghost@fleet.test", Password: "whatever"}); !xerrors.Is(err, xerrors.ErrUnauthorized) {
		t.Fatalf("unknown email: want unauthorized, got %v", err)
	}
}

func TestRegisterDriverPasswordPolicy(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo(), &fakeTokenRepo{}, &fakeMailer{})
	ctx := context.Background()

	base := user.RegisterDriverRequest{
		FullName:      "New Driver",
		Email:         "driver@fleet.test",
		Phone:         "0700000000",
		LicenseNumber: "DL-1",
		LicenseExpiry: "2027-01-01",
	}

	for _, bad := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		req := base
		req.Password = bad
		if _, err := svc.RegisterDriver(ctx, &req); !xerrors.Is(err, xerrors.ErrValidation) {
			t.Fatalf("password %q: want validation error, got %v", bad, err)
		}
	}

	req := base
	req.Password = "Va1idPassword"
	info, err := svc.RegisterDriver(ctx, &req)
	if err != nil {
		t.Fatal(err)
	}
	if info.Role != user.RoleDriver {
		t.Fatalf("role = %s, want DRIVER", info.Role)
	}
	if info.Driver == nil || info.Driver.LicenseNumber != "DL-1" {
		t.Fatal("driver profile missing")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "driver@fleet.test", "Origin4lpass", user.RoleDriver)
	tokens := &fakeTokenRepo{}
	mailer := &fakeMailer{}
	svc := newTestService(t, users, tokens, mailer)
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, &user.ForgotPasswordRequest{Email: "driver@fleet.test"}); err != nil {
		t.Fatal(err)
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("want 1 stored token, got %d", len(tokens.tokens))
	}
	otp := tokens.tokens[0].OTP
	if len(otp) != 6 {
		t.Fatalf("otp %q must be 6 digits", otp)
	}
	if len(mailer.sent) != 1 {
		t.Fatal("otp email not sent")
	}

	if err := svc.VerifyOTP(ctx, &user.VerifyOTPRequest{Email: "driver@fleet.test", OTP: "000000"}); !xerrors.Is(err, xerrors.ErrValidation) {
		if otp == "000000" {
			t.Skip("generated the improbable otp")
		}
		t.Fatalf("wrong otp: want validation error, got %v", err)
	}
	if err := svc.VerifyOTP(ctx, &user.VerifyOTPRequest{Email: "driver@fleet.test", OTP: otp}); err != nil {
		t.Fatal(err)
	}

	if err := svc.ResetPassword(ctx, &user.ResetPasswordRequest{
		Email: "driver@fleet.test", OTP: otp, NewPassword: "Br4ndNewPass",
	}); err != nil {
		t.Fatal(err)
	}
	if !tokens.tokens[0].Used {
		t.Fatal("token must be consumed")
	}
	if _, err := svc.Login(ctx, "ip", &user.LoginRequest{Email: "driver@fleet.test", Password: "Br4ndNewPass"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}

	// A consumed code cannot be replayed.
	if err := svc.ResetPassword(ctx, &user.ResetPasswordRequest{
		Email: "driver@fleet.test", OTP: otp, NewPassword: "An0therPass",
	}); !xerrors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("replayed otp: want validation error, got %v", err)
	}
}

func TestForgotPasswordSurvivesMailFailure(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "driver@fleet.test", "Origin4lpass", user.RoleDriver)
	tokens := &fakeTokenRepo{}
	svc := newTestService(t, users, tokens, &fakeMailer{fail: true})

	if err := svc.ForgotPassword(context.Background(), &user.ForgotPasswordRequest{Email: "driver@fleet.test"}); err != nil {
		t.Fatalf("mail failure must not fail the request: %v", err)
	}
	if len(tokens.tokens) != 1 {
		t.Fatal("token must still be stored")
	}
}
