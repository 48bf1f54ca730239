package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/http/middleware"
	"github.com/diagnosis/founder-playbook/internal/http/response"
	"github.com/diagnosis/founder-playbook/internal/service"
	"github.com/diagnosis/founder-playbook/pkg/logger"
)

type gateFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func writeGateFailure(w http.ResponseWriter, status int, message, code string) {
	response.WriteJSON(w, status, gateFailure{Error: message, Code: code})
}

// rejectionMessage is the only text an unauthenticated caller sees for a rejected code.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDeactivated):
		return "This access code has been deactivated."
	case errors.Is(err, domain.ErrExpired):
		return "This access code has expired."
	case errors.Is(err, domain.ErrUsageLimitReached):
		return "This access code has reached its usage limit."
	default:
		return "Invalid password. Please try again."
	}
}

// SubmitAccessCode handles POST /auth/access
func (h *Handlers) SubmitAccessCode(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	sess, err := h.gate.SubmitCode(r.Context(), middleware.Session(r), service.Attempt{
		Code:      in.Password,
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	var validation *domain.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &validation):
		writeGateFailure(w, http.StatusBadRequest, validation.Msg, response.CodeInvalidInput)
		return
	case domain.IsGateOutcome(err):
		writeGateFailure(w, http.StatusUnauthorized, rejectionMessage(err), response.CodeCodeRejected)
		return
	default:
		logger.ErrorContext(r.Context(), "Access code check failed", "error", err)
		writeGateFailure(w, http.StatusInternalServerError, "Server error", response.CodeInternalError)
		return
	}

	if err := h.cookies.Write(w, sess.ID); err != nil {
		logger.ErrorContext(r.Context(), "Failed to issue session cookie", "error", err)
		writeGateFailure(w, http.StatusInternalServerError, "Server error", response.CodeInternalError)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Access granted",
		"customerName": sess.CustomerName,
	})
}

// CheckAuth handles GET /auth/check
func (h *Handlers) CheckAuth(w http.ResponseWriter, r *http.Request) {
	sess := middleware.Session(r)
	if !middleware.Capabilities(r).Visitor || sess == nil {
		response.WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
		return
	}
	response.WriteJSON(w, http.StatusOK, struct {
		Authenticated   bool       `json:"authenticated"`
		AuthenticatedAt *time.Time `json:"authenticatedAt"`
		CustomerName    string     `json:"customerName"`
	}{true, sess.AuthenticatedAt, sess.CustomerName})
}

// Logout handles POST /auth/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Logout(r.Context(), middleware.Session(r)); err != nil {
		logger.ErrorContext(r.Context(), "Logout failed", "error", err)
		response.InternalError(w, "Could not log out")
		return
	}
	h.cookies.Clear(w)
	writeOK(w, "Logged out successfully")
}

// AdminAuth handles POST /admin/auth
func (h *Handlers) AdminAuth(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	sess, err := h.gate.AdminLogin(r.Context(), middleware.Session(r), in.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAdminNotConfigured):
		response.InternalError(w, "Server configuration error")
		return
	case errors.Is(err, domain.ErrUnauthorized):
		writeGateFailure(w, http.StatusUnauthorized, "Invalid admin password.", response.CodeUnauthorized)
		return
	default:
		logger.ErrorContext(r.Context(), "Admin login failed", "error", err)
		response.InternalError(w, "Server error")
		return
	}

	if err := h.cookies.Write(w, sess.ID); err != nil {
		logger.ErrorContext(r.Context(), "Failed to issue session cookie", "error", err)
		response.InternalError(w, "Server error")
		return
	}
	response.WriteJSON(w, http.StatusOK, okMessage{Success: true, Message: "Admin access granted"})
}

// AdminCheck handles GET /admin/check
func (h *Handlers) AdminCheck(w http.ResponseWriter, r *http.Request) {
	sess := middleware.Session(r)
	if !middleware.Capabilities(r).Admin || sess == nil {
		response.WriteJSON(w, http.StatusOK, map[string]bool{"isAdmin": false})
		return
	}
	response.WriteJSON(w, http.StatusOK, struct {
		IsAdmin         bool       `json:"isAdmin"`
		AuthenticatedAt *time.Time `json:"authenticatedAt"`
	}{true, sess.AdminAuthenticatedAt})
}

// AdminLogout handles POST /admin/logout
func (h *Handlers) AdminLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.AdminLogout(r.Context(), middleware.Session(r)); err != nil {
		logger.ErrorContext(r.Context(), "Admin logout failed", "error", err)
		response.InternalError(w, "Server error")
		return
	}
	writeOK(w, "Admin logged out")
}
