package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// sessionTokenKey is the cookie-session key holding the opaque token.
	sessionTokenKey = "sid"
	// ctxUserID is the gin context key for the resolved user id.
	ctxUserID = "userID"
)

// identify resolves the session cookie into a user id when possible.
// Stale or bogus tokens get their cookie entry cleared.
func (h *Handler) identify(c *gin.Context) {
	sess := sessions.Default(c)
	token, _ := sess.Get(sessionTokenKey).(string)
	if token != "" {
		if userID, err := h.services.Sessions.Resolve(token); err == nil {
			c.Set(ctxUserID, userID)
		} else {
			sess.Delete(sessionTokenKey)
			_ = sess.Save()
		}
	}
	c.Next()
}

// requireUser redirects unauthenticated callers to the login page.
func (h *Handler) requireUser(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func currentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// limitBody caps the request body (uploads included) at the configured
// maximum; oversized requests fail before any handler logic runs.
func (h *Handler) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Upload.MaxBytes)
	c.Next()
}

type notice struct {
	Level string // success | danger
	Text  string
}

// flash queues a one-time notice for the next rendered page.
func (h *Handler) flash(c *gin.Context, level, text string) {
	sess := sessions.Default(c)
	sess.AddFlash(text, level)
	_ = sess.Save()
}

// render draws a template with pending notices and session state merged in.
func (h *Handler) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	sess := sessions.Default(c)
	var notices []notice
	for _, lvl := range []string{"success", "danger"} {
		for _, f := range sess.Flashes(lvl) {
			notices = append(notices, notice{Level: lvl, Text: fmt.Sprint(f)})
		}
	}
	if len(notices) > 0 {
		_ = sess.Save() // reading flashes consumes them
	}
	data["Notices"] = notices
	_, data["LoggedIn"] = currentUserID(c)

	c.HTML(code, name, data)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error.tmpl", gin.H{"Message": "Page not found"})
}
