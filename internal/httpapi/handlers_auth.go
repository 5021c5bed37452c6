package httpapi

import (
	"net/http"

	"github.com/HilmanThoriq/finterra-app/internal/auth"
	"github.com/HilmanThoriq/finterra-app/internal/log"
)

type signUpPayload struct {
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName"`
}

type signInPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type googleSignInPayload struct {
	IDToken string `json:"idToken" validate:"required"`
}

type userJSON struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Provider    string `json:"provider"`
}

type sessionJSON struct {
	User  userJSON `json:"user"`
	Token string   `json:"token"`
}

func toSessionJSON(session auth.Session) sessionJSON {
	return sessionJSON{
		User: userJSON{
			UID:         session.User.UID,
			Email:       session.User.Email,
			DisplayName: session.User.DisplayName,
			PhotoURL:    session.User.PhotoURL,
			Provider:    session.User.Provider,
		},
		Token: session.Token,
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload signUpPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	session, err := s.auth.SignUp(r.Context(), payload.Email, payload.Password, payload.DisplayName)
	if err != nil {
		s.writeAuthError(w, r, "Sign-up failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionJSON(session))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload signInPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	session, err := s.auth.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		s.writeAuthError(w, r, "Sign-in failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionJSON(session))
}

func (s *Server) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload googleSignInPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	session, err := s.auth.SignInWithGoogle(r.Context(), payload.IDToken)
	if err != nil {
		s.writeAuthError(w, r, "Google sign-in failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionJSON(session))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.auth.SignOut(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// writeAuthError keeps the user-facing message while logging unexpected
// failures server side.
func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := authStatus(err)
	if status == http.StatusInternalServerError {
		s.structured.LogError(r.Context(), msg, err, log.ComponentAuth, log.OpValidate, log.NewFields())
		writeError(w, status, "Something went wrong, please try again")
		return
	}
	writeError(w, status, err.Error())
}
