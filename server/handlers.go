package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/squadhub/apierrors"
	"github.com/jrsteele09/squadhub/apiclient"
	"github.com/jrsteele09/squadhub/auth"
	"github.com/jrsteele09/squadhub/guards"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
)

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found", s.newPage(r, "Not found", nil))
}

// fail turns a service error into a response. A rejected session goes to
// wherever the 401 handler navigated, everything else renders the error
// page with the normalized messages.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if to := redirectTo(r); to != "" {
		http.Redirect(w, r, to, http.StatusSeeOther)
		return
	}
	status := http.StatusBadGateway
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized), apperrors.Is(err, apperrors.ErrNoSession):
		http.Redirect(w, r, guards.RouteLogin, http.StatusSeeOther)
		return
	case apperrors.Is(err, apperrors.ErrNotFound):
		s.notFound(w, r)
		return
	case apperrors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	}
	logError(r.Method, r.URL.Path, err)
	page := s.newPage(r, "Something went wrong", nil)
	page.Errors = apierrors.FromError(err)
	s.render(w, r, status, "error", page)
}

// formFail re-renders a form with field errors, or falls back to fail for
// errors that are not about the submitted values.
func (s *Server) formFail(w http.ResponseWriter, r *http.Request, err error, template string, page *pageData) {
	if !apperrors.Is(err, apperrors.ErrValidation) {
		s.fail(w, r, err)
		return
	}
	page.Errors = apierrors.FromError(err)
	s.render(w, r, http.StatusBadRequest, template, page)
}

type loginForm struct {
	Email string
}

func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "login", s.newPage(r, "Sign in", loginForm{}))
	}
}

func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		req := auth.LoginRequest{Email: r.FormValue("email"), Password: r.FormValue("password")}
		if _, err := auth.SignIn(r.Context(), s.Auth, s.Store, req); err != nil {
			page := s.newPage(r, "Sign in", loginForm{Email: req.Email})
			page.Errors = apierrors.FromError(err)
			status := http.StatusBadRequest
			if code := apiclient.StatusCode(err); code != 0 {
				status = code
			}
			s.render(w, r, status, "login", page)
			return
		}
		http.Redirect(w, r, guards.RouteApp, http.StatusSeeOther)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nav := apiclient.NavigatorFunc(func(_ context.Context, route string) {
			http.Redirect(w, r, route, http.StatusSeeOther)
		})
		if err := auth.SignOut(r.Context(), s.Auth, s.Store, nav); err != nil {
			logError(r.Method, r.URL.Path, err)
		}
	}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func formInt64(r *http.Request, key string) (int64, bool) {
	v, err := strconv.ParseInt(r.FormValue(key), 10, 64)
	return v, err == nil
}
