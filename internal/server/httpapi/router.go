package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every route registered.
// trustedProxies controls which peers may set X-Forwarded-For.
func NewRouter(h *Handler, trustedProxies []string) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}
	r.Use(RequestLogger(h.logger), Recovery(h.logger))

	gate := NewGate(h.sessions, h.logger)
	authed := gate.RequireAuthenticated()

	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")
	api.POST("/login", h.login)
	api.POST("/logout", h.logout)
	api.GET("/user", authed, h.currentUser)
	api.POST("/register", h.register)

	admin := api.Group("/admin")
	admin.GET("/exists", h.adminExists)
	admin.POST("/register", h.registerAdmin)

	cnics := admin.Group("/authorized-cnics", authed, gate.RequireAdmin())
	cnics.GET("", h.listCNICs)
	cnics.POST("", h.authorizeCNIC)
	cnics.DELETE("/:cnic", h.revokeCNIC)

	items := api.Group("/items")
	items.GET("", h.listItems)
	items.GET("/:id", h.getItem)
	items.POST("", authed, h.createItem)
	items.PUT("/:id", authed, h.updateItem)
	items.PATCH("/:id/status", authed, h.updateItemStatus)
	items.DELETE("/:id", authed, h.deleteItem)
	items.POST("/:id/photo", authed, h.uploadPhoto)
	items.PUT("/:id/photo", authed, h.confirmPhoto)

	return r, nil
}
