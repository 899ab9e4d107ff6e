package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"campaign-auth/internal/domain"
	"campaign-auth/internal/email"
	"campaign-auth/internal/repository"
)

var (
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrInvalidOrExpiredOTP = errors.New("otp invalid or expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrNotYetVerified      = errors.New("email not yet verified")
	ErrAlreadyApproved     = errors.New("user already approved")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrNotApproved         = errors.New("account not approved")
	ErrRateLimited         = errors.New("rate limited")
	ErrEmailSendFailure    = errors.New("email send failed")
)

// AuthService coordina el ciclo de vida de registro y los inicios de sesión.
//
// Estados de un usuario: registrado (sin verificar) -> verificado (pendiente
// de aprobación) -> aprobado (activo). El rechazo elimina al usuario y sus
// datos asociados; solo aplica a usuarios no aprobados.
type AuthService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	otps       repository.OtpRepository
	media      repository.MediaRepository
	admins     repository.AdminRepository
	sender     email.Sender
	hasher     PasswordHasher
	tokens     *TokenService
	otpLimiter RateLimiter
	otpTTL     time.Duration
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	otps repository.OtpRepository,
	media repository.MediaRepository,
	admins repository.AdminRepository,
	sender email.Sender,
	hasher PasswordHasher,
	tokens *TokenService,
	otpLimiter RateLimiter,
	otpTTL time.Duration,
) *AuthService {
	if otpLimiter == nil {
		otpLimiter = NewRateLimiter(10*time.Minute, 3)
	}
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &AuthService{
		logger:     logger,
		users:      users,
		otps:       otps,
		media:      media,
		admins:     admins,
		sender:     sender,
		hasher:     hasher,
		tokens:     tokens,
		otpLimiter: otpLimiter,
		otpTTL:     otpTTL,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Files     []Attachment
}

// Attachment es un documento ya almacenado por la capa de intake de archivos.
type Attachment struct {
	URL  string
	Type string
}

// Register crea un usuario sin verificar, emite su OTP y guarda los
// documentos adjuntos. Si el envío del correo falla el registro igual
// queda persistido: el usuario puede pedir un reenvío.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return "", ErrInvalidCredentials
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return "", ErrDuplicateEmail
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	if s.otpLimiter != nil && !s.otpLimiter.Allow(emailAddr) {
		return "", ErrRateLimited
	}

	if err := s.issueOTP(ctx, emailAddr, false); err != nil {
		return "", err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return "", err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        emailAddr,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// El pre-chequeo no es garantía ante registros concurrentes: la
		// restricción de unicidad del store resuelve la carrera.
		if repository.IsUniqueViolation(err) {
			return "", ErrDuplicateEmail
		}
		return "", err
	}

	for _, file := range input.Files {
		media := domain.Media{
			ID:        uuid.NewString(),
			URL:       file.URL,
			Type:      file.Type,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.media.AttachToUser(ctx, user.ID, media); err != nil {
			return "", err
		}
	}

	return user.ID, nil
}

// VerifyOTP consume el código más reciente válido para el email y marca al
// usuario como verificado. No aprueba automáticamente.
func (s *AuthService) VerifyOTP(ctx context.Context, emailAddr, code string) error {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" || !isValidOTPCode(code) {
		return ErrInvalidOrExpiredOTP
	}

	otp, err := s.otps.GetValid(ctx, emailAddr, code, time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidOrExpiredOTP
		}
		return err
	}

	if err := s.otps.MarkVerified(ctx, otp.ID); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return s.users.SetVerified(ctx, user.ID)
}

// ResendOTP invalida los códigos anteriores y emite uno nuevo.
func (s *AuthService) ResendOTP(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrUserNotFound
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if s.otpLimiter != nil && !s.otpLimiter.Allow(emailAddr) {
		return ErrRateLimited
	}

	if err := s.otps.DeleteUnverified(ctx, emailAddr); err != nil {
		return err
	}
	return s.issueOTP(ctx, emailAddr, true)
}

// issueOTP persiste un código nuevo y lo despacha. Con strict el fallo de
// envío se propaga; sin strict solo se registra, el estado ya quedó escrito.
func (s *AuthService) issueOTP(ctx context.Context, emailAddr string, strict bool) error {
	code, err := generateOTPCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.otpTTL)

	otp := domain.OtpVerification{
		ID:        uuid.NewString(),
		Email:     emailAddr,
		Otp:       code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return err
	}

	if err := s.sender.SendOTP(ctx, emailAddr, code, expiresAt); err != nil {
		if s.logger != nil {
			s.logger.Warn("send otp failed", zap.Error(err), zap.String("email", emailAddr))
		}
		if strict {
			return ErrEmailSendFailure
		}
	}
	return nil
}

// LoginUser exige email verificado y cuenta aprobada antes de comparar la
// contraseña. El mensaje de credenciales inválidas no distingue entre email
// desconocido y contraseña incorrecta.
func (s *AuthService) LoginUser(ctx context.Context, emailAddr, password string) (domain.User, string, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if !user.IsVerified {
		return domain.User{}, "", ErrEmailNotVerified
	}
	if !user.IsApproved {
		return domain.User{}, "", ErrNotApproved
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, RoleUser)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// LoginAdmin autentica a un administrador y emite un token con rol admin.
func (s *AuthService) LoginAdmin(ctx context.Context, emailAddr, password string) (domain.Admin, string, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.Admin{}, "", ErrInvalidCredentials
	}

	admin, err := s.admins.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Admin{}, "", ErrInvalidCredentials
		}
		return domain.Admin{}, "", err
	}
	if !s.hasher.Verify(password, admin.PasswordHash) {
		return domain.Admin{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.ID, admin.Email, RoleAdmin)
	if err != nil {
		return domain.Admin{}, "", err
	}
	return admin, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
