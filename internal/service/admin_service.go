package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"campaign-auth/internal/domain"
	"campaign-auth/internal/email"
	"campaign-auth/internal/repository"
)

// AdminService cubre la revisión de usuarios pendientes, la gestión de
// administradores y los contadores del dashboard.
type AdminService struct {
	logger *zap.Logger
	users  repository.UserRepository
	media  repository.MediaRepository
	admins repository.AdminRepository
	stats  repository.StatsRepository
	sender email.Sender
	hasher PasswordHasher
}

func NewAdminService(
	logger *zap.Logger,
	users repository.UserRepository,
	media repository.MediaRepository,
	admins repository.AdminRepository,
	stats repository.StatsRepository,
	sender email.Sender,
	hasher PasswordHasher,
) *AdminService {
	return &AdminService{
		logger: logger,
		users:  users,
		media:  media,
		admins: admins,
		stats:  stats,
		sender: sender,
		hasher: hasher,
	}
}

func (s *AdminService) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return s.stats.DashboardStats(ctx)
}

// PendingUsers lista usuarios verificados sin aprobar, los más antiguos primero.
func (s *AdminService) PendingUsers(ctx context.Context) ([]domain.UserWithMedia, error) {
	users, err := s.users.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return s.withMedia(ctx, users)
}

// AllUsers lista usuarios activos, los más recientes primero.
func (s *AdminService) AllUsers(ctx context.Context) ([]domain.UserWithMedia, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withMedia(ctx, users)
}

func (s *AdminService) withMedia(ctx context.Context, users []domain.User) ([]domain.UserWithMedia, error) {
	result := make([]domain.UserWithMedia, 0, len(users))
	for _, u := range users {
		media, err := s.media.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.UserWithMedia{User: u, RegistrationMedia: media})
	}
	return result, nil
}

// ApproveUser marca como aprobado a un usuario ya verificado y notifica por
// correo. El fallo de notificación no revierte la aprobación.
func (s *AdminService) ApproveUser(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.IsVerified {
		return ErrNotYetVerified
	}
	if user.IsApproved {
		return ErrAlreadyApproved
	}

	if err := s.users.SetApproved(ctx, user.ID); err != nil {
		return err
	}

	if err := s.sender.SendApproval(ctx, user.Email, user.FirstName); err != nil {
		if s.logger != nil {
			s.logger.Warn("send approval failed", zap.Error(err), zap.String("email", user.Email))
		}
	}
	return nil
}

// RejectUser elimina al usuario junto con sus documentos y códigos OTP en una
// sola transacción. Un usuario ya aprobado no puede rechazarse. La
// notificación se despacha después del commit y su fallo no revierte nada.
func (s *AdminService) RejectUser(ctx context.Context, userID, reason string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsApproved {
		return ErrAlreadyApproved
	}

	if err := s.users.Purge(ctx, user); err != nil {
		return err
	}

	if err := s.sender.SendRejection(ctx, user.Email, user.FirstName, reason); err != nil {
		if s.logger != nil {
			s.logger.Warn("send rejection failed", zap.Error(err), zap.String("email", user.Email))
		}
	}
	return nil
}

// CreateAdmin da de alta un administrador. El chequeo de duplicados incluye
// admins con soft-delete: un email usado alguna vez no puede reutilizarse.
func (s *AdminService) CreateAdmin(ctx context.Context, emailAddr, password string) (domain.Admin, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.Admin{}, ErrInvalidCredentials
	}

	exists, err := s.admins.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return domain.Admin{}, err
	}
	if exists {
		return domain.Admin{}, ErrDuplicateEmail
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.Admin{}, err
	}

	now := time.Now().UTC()
	admin := domain.Admin{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.Admin{}, ErrDuplicateEmail
		}
		return domain.Admin{}, err
	}

	admin.PasswordHash = ""
	return admin, nil
}

// ListAdmins devuelve admins activos, los más recientes primero, sin hashes.
func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range admins {
		admins[i].PasswordHash = ""
	}
	return admins, nil
}
