package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gomarket/internal/forms"
	"gomarket/internal/service"
	"gomarket/internal/upload"

	"github.com/gin-gonic/gin"
)

func (h *Handler) home(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		h.render(c, http.StatusOK, "main.tmpl", gin.H{})
		return
	}

	products, err := h.services.ListAll(c.Request.Context())
	if err != nil {
		h.log.Errorw("home_list_failed", "err", err)
		h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
		return
	}
	h.render(c, http.StatusOK, "home.tmpl", gin.H{"Products": products})
}

func (h *Handler) addProductForm(c *gin.Context) {
	h.render(c, http.StatusOK, "product_form.tmpl", gin.H{
		"Mode": "create", "Form": forms.Product{}, "Errors": forms.Errors{},
	})
}

func (h *Handler) addProductSubmit(c *gin.Context) {
	userID, _ := currentUserID(c)

	var form forms.Product
	_ = c.ShouldBind(&form)

	errs := forms.Validate(form)
	if errs.Any() {
		h.render(c, http.StatusBadRequest, "product_form.tmpl", gin.H{
			"Mode": "create", "Form": form, "Errors": errs,
		})
		return
	}

	_, err := h.services.Products.Create(c.Request.Context(), service.ProductParams{
		OwnerID:     userID,
		Name:        form.Name,
		PriceCents:  form.Cents(),
		Description: form.Description,
		ImageRef:    h.savedImageRef(c),
	})
	if err != nil {
		h.log.Errorw("product_create_failed", "user_id", userID, "err", err)
		h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
		return
	}

	h.flash(c, "success", "You added a new product successfully!")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) editProductForm(c *gin.Context) {
	userID, _ := currentUserID(c)

	id, ok := productID(c)
	if !ok {
		h.notFound(c)
		return
	}

	product, err := h.services.Products.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.log.Errorw("product_get_failed", "product_id", id, "err", err)
		h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
		return
	}
	if product.OwnerID != userID {
		h.forbidden(c)
		return
	}

	h.render(c, http.StatusOK, "product_form.tmpl", gin.H{
		"Mode": "edit",
		"ID":   product.ID,
		"Form": forms.Product{
			Name:        product.Name,
			Price:       product.Price(),
			Description: product.Description,
		},
		"Errors": forms.Errors{},
	})
}

func (h *Handler) editProductSubmit(c *gin.Context) {
	userID, _ := currentUserID(c)

	id, ok := productID(c)
	if !ok {
		h.notFound(c)
		return
	}

	var form forms.Product
	_ = c.ShouldBind(&form)

	errs := forms.Validate(form)
	if errs.Any() {
		h.render(c, http.StatusBadRequest, "product_form.tmpl", gin.H{
			"Mode": "edit", "ID": id, "Form": form, "Errors": errs,
		})
		return
	}

	err := h.services.Products.Update(c.Request.Context(), id, userID, service.ProductParams{
		Name:        form.Name,
		PriceCents:  form.Cents(),
		Description: form.Description,
		ImageRef:    h.savedImageRef(c), // empty keeps the current image
	})
	if err != nil {
		h.respondProductError(c, id, err, "product_update_failed")
		return
	}

	h.flash(c, "success", "You edited the product successfully!")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) deleteProduct(c *gin.Context) {
	userID, _ := currentUserID(c)

	id, ok := productID(c)
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.services.Products.Delete(c.Request.Context(), id, userID); err != nil {
		h.respondProductError(c, id, err, "product_delete_failed")
		return
	}

	h.flash(c, "success", "You deleted the product successfully!")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) activity(c *gin.Context) {
	events, err := h.services.AuditLog.List(c.Request.Context(), service.LogFilter{
		Type: c.Query("type"),
	})
	if err != nil {
		h.log.Errorw("activity_list_failed", "err", err)
		h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
		return
	}
	h.render(c, http.StatusOK, "activity.tmpl", gin.H{"Events": events})
}

// respondProductError maps service errors on mutations to responses:
// unknown id is a 404, someone else's product bounces back home with a
// notice, anything else is a server error.
func (h *Handler) respondProductError(c *gin.Context, id int64, err error, logKey string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(c)
	case errors.Is(err, service.ErrForbidden):
		h.forbidden(c)
	default:
		h.log.Errorw(logKey, "product_id", id, "err", err)
		h.render(c, http.StatusInternalServerError, "error.tmpl", gin.H{"Message": "Something went wrong"})
	}
}

func (h *Handler) forbidden(c *gin.Context) {
	h.flash(c, "danger", "That product belongs to another seller")
	c.Redirect(http.StatusSeeOther, "/")
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// savedImageRef stores an attached image, if any, and returns its
// reference. Missing file means no change; a disallowed type is
// dropped rather than failing the whole submission.
func (h *Handler) savedImageRef(c *gin.Context) string {
	fh, err := c.FormFile("image")
	if err != nil {
		return "" // no file attached
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Errorw("upload_open_failed", "filename", fh.Filename, "err", err)
		return ""
	}
	defer f.Close()

	ref, err := h.uploads.Save(f, fh.Filename)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) {
			h.log.Infow("upload_rejected", "filename", fh.Filename)
		} else {
			h.log.Errorw("upload_save_failed", "filename", fh.Filename, "err", err)
		}
		return ""
	}
	return ref
}
