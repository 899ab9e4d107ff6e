package domain

import "time"

// OtpVerification es un codigo de un solo uso asociado a un email.
// Puede haber varias filas por email; las no verificadas se purgan al reenviar.
type OtpVerification struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Otp       string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
