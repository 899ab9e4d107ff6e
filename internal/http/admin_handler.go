package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campaign-auth/internal/service"
)

// AdminHandler mantiene dependencias para los endpoints protegidos de /admin.
type AdminHandler struct {
	logger   *zap.Logger
	adminSvc *service.AdminService
}

func NewAdminHandler(logger *zap.Logger, adminSvc *service.AdminService) *AdminHandler {
	return &AdminHandler{
		logger:   logger,
		adminSvc: adminSvc,
	}
}

// Dashboard maneja GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminSvc.DashboardStats(c.Request.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not load dashboard stats")
		return
	}
	respond(c, http.StatusOK, "dashboard stats", gin.H{"stats": stats})
}

// PendingUsers maneja GET /admin/users/pending.
func (h *AdminHandler) PendingUsers(c *gin.Context) {
	users, err := h.adminSvc.PendingUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("list pending users failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list pending users")
		return
	}
	respond(c, http.StatusOK, "pending users", users)
}

// AllUsers maneja GET /admin/users.
func (h *AdminHandler) AllUsers(c *gin.Context) {
	users, err := h.adminSvc.AllUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list users")
		return
	}
	respond(c, http.StatusOK, "users", users)
}

// ApproveUser maneja PUT /admin/users/:id/approve.
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		respondError(c, http.StatusBadRequest, "user id required")
		return
	}

	if err := h.adminSvc.ApproveUser(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrNotYetVerified):
			respondError(c, http.StatusBadRequest, "the user must verify their email first")
		case errors.Is(err, service.ErrAlreadyApproved):
			respondError(c, http.StatusBadRequest, "this user is already approved")
		default:
			h.logger.Error("approve user failed", zap.Error(err), zap.String("user_id", userID))
			respondError(c, http.StatusInternalServerError, "could not approve user")
		}
		return
	}

	respond(c, http.StatusOK, "user approved successfully", nil)
}

// RejectUser maneja PUT /admin/users/:id/reject.
func (h *AdminHandler) RejectUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		respondError(c, http.StatusBadRequest, "user id required")
		return
	}

	var req RejectRequest
	// El cuerpo es opcional: un reject sin razón es válido.
	_ = c.ShouldBindJSON(&req)

	if err := h.adminSvc.RejectUser(c.Request.Context(), userID, req.Reason); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrAlreadyApproved):
			respondError(c, http.StatusBadRequest, "an approved user cannot be rejected")
		default:
			h.logger.Error("reject user failed", zap.Error(err), zap.String("user_id", userID))
			respondError(c, http.StatusInternalServerError, "could not reject user")
		}
		return
	}

	respond(c, http.StatusOK, "user rejected successfully", nil)
}

// ListAdmins maneja GET /admin/admins.
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminSvc.ListAdmins(c.Request.Context())
	if err != nil {
		h.logger.Error("list admins failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list admins")
		return
	}
	respond(c, http.StatusOK, "admins", admins)
}

// CreateAdmin maneja POST /admin/admins.
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondInvalid(c, err)
		return
	}

	admin, err := h.adminSvc.CreateAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			respondError(c, http.StatusBadRequest, "this email is already used by an administrator")
			return
		}
		h.logger.Error("create admin failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not create admin")
		return
	}

	respond(c, http.StatusCreated, "admin created successfully", gin.H{"id": admin.ID, "email": admin.Email})
}
