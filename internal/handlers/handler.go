package handlers

import (
	"net/http"

	"gomarket/internal/config"
	"gomarket/internal/logger"
	"gomarket/internal/service"
	"gomarket/internal/upload"
	"gomarket/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Handler wires the HTTP layer to services, uploads and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      *config.Config
	uploads  *upload.Store
}

// NewHandler constructs the HTTP handler with its dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg *config.Config, uploads *upload.Store) *Handler {
	return &Handler{services: services, log: log, cfg: cfg, uploads: uploads}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	store := cookie.NewStore([]byte(h.cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(h.cfg.Session.CookieName, store))
	router.Use(h.identify)

	router.SetHTMLTemplate(web.Templates())
	router.Static("/uploads", h.cfg.Upload.Dir)

	// Health endpoint
	router.GET("/health", h.health)

	router.GET("/", h.home)

	h.registerAuthRoutes(router)
	h.registerProductRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	limit := h.credentialRateLimit()

	r.GET("/register", h.registerForm)
	r.POST("/register", limit, h.limitBody, h.registerSubmit)
	r.GET("/login", h.loginForm)
	r.POST("/login", limit, h.limitBody, h.loginSubmit)
	r.GET("/logout", h.logout)
}

func (h *Handler) registerProductRoutes(r *gin.Engine) {
	authed := r.Group("/", h.requireUser)
	{
		authed.GET("/dashboard", h.dashboard)
		authed.GET("/activity", h.activity)

		authed.GET("/add_product", h.addProductForm)
		authed.POST("/add_product", h.limitBody, h.addProductSubmit)
		authed.GET("/edit_product/:id", h.editProductForm)
		authed.POST("/edit_product/:id", h.limitBody, h.editProductSubmit)
		authed.GET("/delete_product/:id", h.deleteProduct)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
