package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campaign-auth/internal/service"
	"campaign-auth/internal/upload"
)

// AuthHandler mantiene dependencias para los endpoints públicos de /auth.
type AuthHandler struct {
	logger  *zap.Logger
	authSvc *service.AuthService
	uploads *upload.DiskStore
}

func NewAuthHandler(logger *zap.Logger, authSvc *service.AuthService, uploads *upload.DiskStore) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		authSvc: authSvc,
		uploads: uploads,
	}
}

// Register maneja POST /auth/register (multipart, campo "files" opcional).
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondInvalid(c, err)
		return
	}

	var files []service.Attachment
	if form, err := c.MultipartForm(); err == nil && form != nil {
		stored, err := h.uploads.SaveAll(form.File["files"])
		if err != nil {
			switch {
			case errors.Is(err, upload.ErrTooManyFiles),
				errors.Is(err, upload.ErrFileTooLarge),
				errors.Is(err, upload.ErrUnsupportedType):
				respondError(c, http.StatusBadRequest, err.Error())
			default:
				h.logger.Error("store registration files failed", zap.Error(err))
				respondError(c, http.StatusInternalServerError, "could not store files")
			}
			return
		}
		for _, f := range stored {
			files = append(files, service.Attachment{URL: f.URL, Type: f.MimeType})
		}
	}

	userID, err := h.authSvc.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Files:     files,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			respondError(c, http.StatusBadRequest, "this email is already in use")
		case errors.Is(err, service.ErrRateLimited):
			respondError(c, http.StatusTooManyRequests, "too many requests, please try again later")
		default:
			h.logger.Error("register failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	respond(c, http.StatusCreated, "a verification code has been sent to your email", gin.H{"user_id": userID})
}

// VerifyOTP maneja POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondInvalid(c, err)
		return
	}

	if err := h.authSvc.VerifyOTP(c.Request.Context(), req.Email, req.Otp); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredOTP):
			respondError(c, http.StatusBadRequest, "invalid or expired verification code")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusBadRequest, "no user found for this email")
		default:
			h.logger.Error("verify otp failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	respond(c, http.StatusOK, "email verified successfully, your registration will be reviewed by an administrator", nil)
}

// ResendOTP maneja POST /auth/resend-otp.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondInvalid(c, err)
		return
	}

	if err := h.authSvc.ResendOTP(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusBadRequest, "no user found for this email")
		case errors.Is(err, service.ErrAlreadyVerified):
			respondError(c, http.StatusBadRequest, "this email is already verified")
		case errors.Is(err, service.ErrRateLimited):
			respondError(c, http.StatusTooManyRequests, "too many requests, please try again later")
		case errors.Is(err, service.ErrEmailSendFailure):
			respondError(c, http.StatusServiceUnavailable, "email delivery unavailable")
		default:
			h.logger.Error("resend otp failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "could not resend verification code")
		}
		return
	}

	respond(c, http.StatusOK, "a new verification code has been sent", nil)
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondInvalid(c, err)
		return
	}

	user, token, err := h.authSvc.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrEmailNotVerified):
			respondError(c, http.StatusUnauthorized, "please verify your email before logging in")
		case errors.Is(err, service.ErrNotApproved):
			respondError(c, http.StatusUnauthorized, "your account has not been approved by an administrator yet")
		default:
			h.logger.Error("login failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	respond(c, http.StatusOK, "login successful", gin.H{"token": token, "user": user})
}

// LoginAdmin maneja POST /auth/admin/login.
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondInvalid(c, err)
		return
	}

	admin, token, err := h.authSvc.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("admin login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	respond(c, http.StatusOK, "admin login successful", gin.H{"token": token, "admin": admin})
}
