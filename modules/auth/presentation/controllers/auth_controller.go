package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ZSuraj/abcd-sub000/modules/auth/presentation/controllers/dtos"
	"github.com/ZSuraj/abcd-sub000/modules/auth/services"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/httpapi"
	"github.com/ZSuraj/abcd-sub000/pkg/middleware"
)

type AuthController struct {
	app         application.Application
	authService *services.AuthService
	basePath    string
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:         app,
		authService: app.Service(services.AuthService{}).(*services.AuthService),
		basePath:    "/auth",
	}
}

func (c *AuthController) Key() string {
	return c.basePath
}

func (c *AuthController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/login", c.Login).Methods(http.MethodPost)

	authed := router.NewRoute().Subrouter()
	authed.Use(middleware.RequireSession())
	authed.HandleFunc("/logout", c.Logout).Methods(http.MethodPost)
	authed.HandleFunc("/me", c.Me).Methods(http.MethodGet)
}

func (c *AuthController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	_ = httpapi.WriteServiceError(w, composables.UseRequestID(r.Context()), err)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.LoginDTO{}
	if err := httpapi.DecodeJSON(r.Body, dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "AUTH_INVALID_BODY", "invalid json body", nil)
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "AUTH_INVALID_BODY", "request validation failed", errs)
		return
	}
	sess, u, err := c.authService.Login(r.Context(), dto.Email, dto.Password)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, dtos.LoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      dtos.ToUserResponse(u),
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.authService.Logout(r.Context()); err != nil {
		c.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	u, err := c.authService.Me(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, dtos.ToUserResponse(u))
}
