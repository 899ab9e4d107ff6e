package email

import (
	"context"
	"errors"
	"time"
)

// Sender define la interfaz para las notificaciones del ciclo de registro.
type Sender interface {
	SendOTP(ctx context.Context, toEmail, code string, expiresAt time.Time) error
	SendApproval(ctx context.Context, toEmail, firstName string) error
	SendRejection(ctx context.Context, toEmail, firstName, reason string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) err() error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

func (s *disabledSender) SendOTP(_ context.Context, _, _ string, _ time.Time) error {
	return s.err()
}

func (s *disabledSender) SendApproval(_ context.Context, _, _ string) error {
	return s.err()
}

func (s *disabledSender) SendRejection(_ context.Context, _, _, _ string) error {
	return s.err()
}
