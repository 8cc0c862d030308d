package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// HandleVerifyEmail handles email verification requests and redirects to the frontend.
func (arm *AuthRoutesManager) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		gecho.BadRequest(w, gecho.WithMessage("Missing verification token"), gecho.Send())
		return
	}

	user, err := arm.authService.VerifyEmail(r.Context(), token)
	if err != nil {
		arm.logger.Warn("Email verification failed", gecho.Field("error", err))
		http.Redirect(w, r, getRedirectURL(arm.cfg.Server.FrontendURL, "err"), http.StatusSeeOther)
		return
	}

	arm.logger.Info("Email verified successfully", gecho.Field("user_id", user.ID))
	http.Redirect(w, r, getRedirectURL(arm.cfg.Server.FrontendURL, "ok"), http.StatusSeeOther)
}

func getRedirectURL(frontendURL, status string) string {
	return fmt.Sprintf("%s/email-verified?status=%s", strings.TrimRight(frontendURL, "/"), status)
}
