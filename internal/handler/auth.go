// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

// AuthHandler handles the authentication screens: login, admin login,
// registration, forgot/reset password, and logout.
type AuthHandler struct {
	auth            *service.AuthService
	renderer        *render.Renderer
	sessions        *session.Manager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, renderer *render.Renderer, sm *session.Manager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		auth:            auth,
		renderer:        renderer,
		sessions:        sm,
		loginProtection: lp,
	}
}

// LoginFormData is the template payload for the login screens.
type LoginFormData struct {
	Email  string
	Errors FormErrors
	// AdminLogin switches the screen copy and the expected role.
	AdminLogin bool
}

// LoginForm renders the login page.
// Already-authenticated users are sent to their dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if user := h.sessions.User(r.Context()); user != nil {
		http.Redirect(w, r, user.DashboardPath(), http.StatusSeeOther)
		return
	}

	h.renderPage(w, r, "auth/login", "Sign In", LoginFormData{})
}

// AdminLoginForm renders the admin login page.
func (h *AuthHandler) AdminLoginForm(w http.ResponseWriter, r *http.Request) {
	if user := h.sessions.User(r.Context()); user != nil {
		http.Redirect(w, r, user.DashboardPath(), http.StatusSeeOther)
		return
	}

	h.renderPage(w, r, "auth/admin_login", "Admin Sign In", LoginFormData{AdminLogin: true})
}

// Login handles the login form submission. On success the user lands on
// the dashboard for their role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, false)
}

// AdminLogin handles the admin login form. The same backend endpoint is
// used; a successful login by a non-admin account is rejected here and
// the session is not kept.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, true)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, adminOnly bool) {
	loginURL := redirectLogin
	page := "auth/login"
	title := "Sign In"
	if adminOnly {
		loginURL = redirectAdminLogin
		page = "auth/admin_login"
		title = "Admin Sign In"
	}

	if !parseFormOrRedirect(w, r, h.renderer, loginURL) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	errs := FormErrors{}
	validateRequired(errs, "email", email, "Email")
	validateEmail(errs, "email", email)
	validateRequired(errs, "password", password, "Password")
	if errs.HasErrors() {
		h.renderPage(w, r, page, title, LoginFormData{Email: email, Errors: errs, AdminLogin: adminOnly})
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			flashError(w, r, h.renderer, loginURL, "Too many failed attempts. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	resp, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		slog.Debug("login failed", "email", email, "error", err)
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				flashError(w, r, h.renderer, loginURL, "Too many failed attempts. Try again in "+formatDuration(lockDuration)+".")
				return
			}
		}
		errs["form"] = api.Message(err, "Invalid email or password")
		h.renderPage(w, r, page, title, LoginFormData{Email: email, Errors: errs, AdminLogin: adminOnly})
		return
	}

	if adminOnly && resp.User.Role != model.RoleAdmin {
		slog.Warn("non-admin login on admin screen", "user_id", resp.User.ID, "role", resp.User.Role)
		errs["form"] = "This account does not have admin access"
		h.renderPage(w, r, page, title, LoginFormData{Email: email, Errors: errs, AdminLogin: true})
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := h.sessions.SetAuth(r.Context(), resp.Token, &resp.User); err != nil {
		logAndInternalError(w, "failed to establish session", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	h.renderer.SetFlash(r, "Welcome back, "+resp.User.Name+"!", "success")
	http.Redirect(w, r, resp.User.DashboardPath(), http.StatusSeeOther)
}

// RegisterFormData is the template payload for the registration screen.
type RegisterFormData struct {
	Name       string
	Email      string
	Department string
	Errors     FormErrors
}

// RegisterForm renders the account creation page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if user := h.sessions.User(r.Context()); user != nil {
		http.Redirect(w, r, user.DashboardPath(), http.StatusSeeOther)
		return
	}

	h.renderPage(w, r, "auth/register", "Create Account", RegisterFormData{})
}

// Register handles the registration form submission. New accounts get
// the STUDENT role from the backend and land on the student dashboard.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	form := RegisterFormData{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Department: r.FormValue("department"),
		Errors:     FormErrors{},
	}
	password := r.FormValue("password")

	validateRequired(form.Errors, "name", form.Name, "Name")
	validateRequired(form.Errors, "email", form.Email, "Email")
	validateEmail(form.Errors, "email", form.Email)
	validatePassword(form.Errors, "password", password)
	validatePasswordConfirmation(form.Errors, "confirmPassword", password, r.FormValue("confirmPassword"))
	if form.Errors.HasErrors() {
		h.renderPage(w, r, "auth/register", "Create Account", form)
		return
	}

	resp, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:       form.Name,
		Email:      form.Email,
		Password:   password,
		Department: form.Department,
	})
	if err != nil {
		form.Errors["form"] = api.Message(err, "Could not create your account")
		h.renderPage(w, r, "auth/register", "Create Account", form)
		return
	}

	if err := h.sessions.SetAuth(r.Context(), resp.Token, &resp.User); err != nil {
		logAndInternalError(w, "failed to establish session", "error", err)
		return
	}

	slog.Info("account created", "user_id", resp.User.ID)
	h.renderer.SetFlash(r, "Welcome to EventFlow, "+resp.User.Name+"!", "success")
	http.Redirect(w, r, resp.User.DashboardPath(), http.StatusSeeOther)
}

// ForgotPasswordForm renders the forgot-password page.
func (h *AuthHandler) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "auth/forgot_password", "Forgot Password", LoginFormData{})
}

// ForgotPassword handles the forgot-password submission. The response
// does not reveal whether the address has an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectForgotPassword) {
		return
	}

	email := r.FormValue("email")
	errs := FormErrors{}
	validateRequired(errs, "email", email, "Email")
	validateEmail(errs, "email", email)
	if errs.HasErrors() {
		h.renderPage(w, r, "auth/forgot_password", "Forgot Password", LoginFormData{Email: email, Errors: errs})
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), email); err != nil {
		slog.Error("forgot-password request failed", "error", err)
	}

	flashSuccess(w, r, h.renderer, redirectLogin, "If that address has an account, a reset link is on its way.")
}

// ResetPasswordFormData is the template payload for the reset screen.
type ResetPasswordFormData struct {
	Token  string
	Errors FormErrors
}

// ResetPasswordForm renders the reset-password page for a token link.
func (h *AuthHandler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	h.renderPage(w, r, "auth/reset_password", "Reset Password", ResetPasswordFormData{Token: token})
}

// ResetPassword handles the reset-password submission. Validation runs
// before any backend call: a short password or a mismatched confirmation
// never leaves the frontend.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	selfURL := fmt.Sprintf(redirectResetFmt, token)

	if !parseFormOrRedirect(w, r, h.renderer, selfURL) {
		return
	}

	password := r.FormValue("password")
	errs := FormErrors{}
	validatePassword(errs, "password", password)
	validatePasswordConfirmation(errs, "confirmPassword", password, r.FormValue("confirmPassword"))
	if errs.HasErrors() {
		h.renderPage(w, r, "auth/reset_password", "Reset Password", ResetPasswordFormData{Token: token, Errors: errs})
		return
	}

	if err := h.auth.ResetPassword(r.Context(), token, password); err != nil {
		errs["form"] = api.Message(err, "Could not reset your password. The link may have expired.")
		h.renderPage(w, r, "auth/reset_password", "Reset Password", ResetPasswordFormData{Token: token, Errors: errs})
		return
	}

	flashSuccess(w, r, h.renderer, redirectLogin, "Password updated. Sign in with your new password.")
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user := h.sessions.User(r.Context()); user != nil {
		userID = user.ID
	}

	if err := h.sessions.Clear(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been signed out.", "info")
}

func (h *AuthHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	if err := h.renderer.Render(w, r, name, render.TemplateData{Title: title, Data: data}); err != nil {
		logAndInternalError(w, "failed to render page", "template", name, "error", err)
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
