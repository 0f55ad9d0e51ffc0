package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/middleware"
)

// Handlers bundles every API handler. Storage is nil unless the local storage driver is active.
type Handlers struct {
	Auth          *AuthHandler
	Events        *EventHandler
	Notifications *NotificationHandler
	Magazines     *MagazineHandler
	Gallery       *GalleryHandler
	Uploads       *UploadHandler
	Certificates  *CertificateHandler
	Profiles      *ProfileHandler
	Storage       *StorageHandler
}

// RegisterRoutes mounts the API under group. Role checks happen in the services against the
// caller's stored profile, so routes only distinguish public, optional and required identity.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, tokens middleware.TokenValidator) {
	requireAuth := middleware.JWT(tokens)
	optionalAuth := middleware.OptionalJWT(tokens)

	auth := group.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/anonymous", h.Auth.Anonymous)
	auth.GET("/me", optionalAuth, h.Auth.Me)

	events := group.Group("/events")
	events.GET("", h.Events.List)
	events.GET("/:id", h.Events.Get)
	events.POST("", requireAuth, h.Events.Create)

	group.POST("/uploads", requireAuth, h.Uploads.GenerateUploadURL)

	notifications := group.Group("/notifications")
	notifications.GET("", h.Notifications.List)
	notifications.POST("", requireAuth, h.Notifications.Create)

	magazines := group.Group("/magazines")
	magazines.GET("", h.Magazines.List)
	magazines.POST("", requireAuth, h.Magazines.Create)

	gallery := group.Group("/gallery")
	gallery.GET("", h.Gallery.List)
	gallery.POST("", requireAuth, h.Gallery.Upload)

	certificates := group.Group("/certificates", requireAuth)
	certificates.POST("", h.Certificates.Request)
	certificates.GET("/mine", h.Certificates.ListMine)
	certificates.GET("/pending", h.Certificates.ListPending)
	certificates.GET("/pending/export", h.Certificates.ExportPending)
	certificates.PATCH("/:id/status", h.Certificates.UpdateStatus)

	profiles := group.Group("/profiles")
	profiles.GET("/me", optionalAuth, h.Profiles.GetCurrent)
	profiles.POST("/me", requireAuth, h.Profiles.CreateDefault)
	profiles.PATCH("/me", requireAuth, h.Profiles.Update)
	profiles.GET("/me/is-executive", optionalAuth, h.Profiles.IsExecutive)
	profiles.POST("/promotions", requireAuth, h.Profiles.Promote)
	profiles.GET("/executives", h.Profiles.ListExecutives)

	if h.Storage != nil {
		files := group.Group("/storage")
		files.PUT("/upload", h.Storage.Upload)
		files.POST("/upload", h.Storage.Upload)
		files.GET("/files/:id", h.Storage.Download)
	}
}
