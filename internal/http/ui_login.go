package httpx

import (
	"net/http"
	"strings"

	apperrors "github.com/target/placesmap/internal/errors"
)

// Login page messages.
const (
	MsgMagicLinkSent = "¡Revisa tu email para ver el enlace de inicio de sesión!"
	MsgSignedOut     = "Has cerrado la sesión."
)

// Home renders the landing page; signed-in users go straight to the dashboard.
// GET /.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	if GetSessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, dashboardPath, http.StatusFound)
		return
	}
	data := NewTemplateData(r, PageMeta{CurrentPage: PageHome}).Build()
	h.renderPage(w, r, http.StatusOK, data)
}

// LoginPage renders the email form.
// GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if GetSessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, dashboardPath, http.StatusFound)
		return
	}
	v := loginView{Status: http.StatusOK}
	if r.URL.Query().Get("signed_out") != "" {
		v.Kind, v.Message = "info", MsgSignedOut
	}
	h.renderLogin(w, r, v)
}

// LoginSubmit asks the provider to email a sign-in link that returns to the
// callback. The PKCE verifier, when the provider issues one, is kept in a cookie.
// POST /login.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))

	dispatch, err := h.Auth.RequestMagicLink(r.Context(), email, h.BaseURL+callbackPath)
	if err != nil {
		h.logger().WarnContext(r.Context(), "magic link request failed", "error", err)
		h.renderLogin(w, r, loginView{
			Status:  apperrors.StatusCode(err),
			Email:   email,
			Kind:    "error",
			Message: "Error: " + apperrors.UserMessage(err),
		})
		return
	}

	if dispatch.CodeVerifier != "" {
		setVerifierCookie(w, r, h.CookieDomain, dispatch.CodeVerifier)
	}
	h.renderLogin(w, r, loginView{Status: http.StatusOK, Email: email, Kind: "success", Message: MsgMagicLinkSent})
}

// LoginWithMessage renders the login page with an error message; used when
// the emailed link cannot be completed.
func (h *UIHandlers) LoginWithMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.renderLogin(w, r, loginView{Status: status, Kind: "error", Message: msg})
}

type loginView struct {
	Status  int
	Email   string
	Kind    string
	Message string
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, v loginView) {
	data := NewTemplateData(r, PageMeta{Title: "Iniciar sesión", CurrentPage: PageLogin}).
		With("Email", v.Email).
		WithMessage(v.Kind, v.Message).
		Build()
	h.renderPage(w, r, v.Status, data)
}
