package session

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/gin-gonic/gin"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetCookie issues the session cookie to the client.
func SetCookie(c *gin.Context, token string, expiresAt time.Time, opts CookieOptions) {
	ck := opts.cookie(token)
	ck.Expires = expiresAt
	ck.MaxAge = int(time.Until(expiresAt).Seconds())
	http.SetCookie(c.Writer, ck)
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(c *gin.Context, opts CookieOptions) {
	ck := opts.cookie("")
	ck.MaxAge = -1
	http.SetCookie(c.Writer, ck)
}

// TokenFromRequest returns the session cookie value, or "" when absent.
func TokenFromRequest(c *gin.Context) string {
	v, err := c.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return v
}
