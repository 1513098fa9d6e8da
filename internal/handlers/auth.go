package handlers

import (
	"errors"
	"net/http"

	"gomarket/internal/forms"
	"gomarket/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handler) registerForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.tmpl", gin.H{"Form": forms.Registration{}, "Errors": forms.Errors{}})
}

func (h *Handler) registerSubmit(c *gin.Context) {
	var form forms.Registration
	_ = c.ShouldBind(&form)

	errs := forms.Validate(form)
	if !errs.Any() {
		// uniqueness runs after per-field rules, like any cross-field check
		_, err := h.services.Register(c.Request.Context(), form.Username, form.Email, form.Password)
		switch {
		case err == nil:
			h.flash(c, "success", "Registration successful! Please login.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		case errors.Is(err, service.ErrUsernameTaken):
			errs["username"] = "Username already taken"
		case errors.Is(err, service.ErrEmailTaken):
			errs["email"] = "Email already registered"
		default:
			h.log.Errorw("register_failed", "err", err)
			h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
			return
		}
	}

	h.render(c, http.StatusBadRequest, "register.tmpl", gin.H{"Form": form, "Errors": errs})
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.tmpl", gin.H{"Form": forms.Login{}, "Errors": forms.Errors{}})
}

func (h *Handler) loginSubmit(c *gin.Context) {
	var form forms.Login
	_ = c.ShouldBind(&form)

	errs := forms.Validate(form)
	if errs.Any() {
		h.render(c, http.StatusBadRequest, "login.tmpl", gin.H{"Form": form, "Errors": errs})
		return
	}

	user, err := h.services.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// one generic notice, no hint at which part was wrong
			h.flash(c, "danger", "Invalid email or password")
			h.render(c, http.StatusUnauthorized, "login.tmpl", gin.H{"Form": form, "Errors": forms.Errors{}})
			return
		}
		h.log.Errorw("login_failed", "err", err)
		h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
		return
	}

	token := h.services.Sessions.Create(user.ID)
	sess := sessions.Default(c)
	sess.Set(sessionTokenKey, token)
	sess.AddFlash("You logged in successfully!", "success")
	_ = sess.Save()

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) logout(c *gin.Context) {
	sess := sessions.Default(c)
	if token, _ := sess.Get(sessionTokenKey).(string); token != "" {
		h.services.Sessions.Destroy(token)
	}
	sess.Delete(sessionTokenKey)
	sess.AddFlash("You logged out", "success")
	_ = sess.Save()

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) dashboard(c *gin.Context) {
	userID, _ := currentUserID(c)

	user, err := h.services.UserByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		h.log.Errorw("dashboard_user_lookup_failed", "user_id", userID, "err", err)
		h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
		return
	}

	products, err := h.services.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorw("dashboard_list_failed", "user_id", userID, "err", err)
		h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
		return
	}

	h.render(c, http.StatusOK, "dashboard.tmpl", gin.H{"User": user, "Products": products})
}
