package lib

import (
	"modfy_server/config"
	"net/http"
	"time"
)

// SessionCookieName carries the server-side session id.
const SessionCookieName = "modfy.sid"

// baseCookie is HttpOnly on "/". Production serves the storefront and API
// from sibling subdomains, so there it is SameSite=None, Secure and scoped
// to COOKIE_DOMAIN.
func baseCookie(name string) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if config.IsProduction() {
		c.SameSite = http.SameSiteNoneMode
		c.Secure = true
		c.Domain = config.GetConfig().Auth.CookieDomain
	}
	return c
}

func SetCookie(name, value string, expiry time.Time, w http.ResponseWriter) {
	c := baseCookie(name)
	c.Value = value
	c.Expires = expiry
	c.MaxAge = max(int(time.Until(expiry).Seconds()), 1)
	http.SetCookie(w, c)
}

func GetCookieValue(name string, r *http.Request) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// ClearCookie expires the cookie in the browser.
func ClearCookie(name string, w http.ResponseWriter) {
	c := baseCookie(name)
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}
