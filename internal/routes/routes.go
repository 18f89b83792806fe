package routes

import (
	"github.com/gin-gonic/gin"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	auth *services.AuthService,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	legalHandler *handlers.LegalHandler,
	subscribeHandler *handlers.SubscribeHandler,
	contactHandler *handlers.ContactHandler,
	sitemapHandler *handlers.SitemapHandler,
) *gin.Engine {

	session := middleware.RequireSession(auth)
	adminOnly := middleware.RequireAdmin()

	r.GET("/sitemap.xml", sitemapHandler.Get)

	// ---- auth
	a := r.Group("/api/auth")
	{
		a.POST("/register", authHandler.Register)
		a.GET("/verify/:token", authHandler.VerifyEmail)
		a.POST("/login", authHandler.Login)
		a.POST("/verify-otp", authHandler.VerifyOtp)
		a.POST("/logout", authHandler.Logout)

		a.POST("/update-author-name", session, authHandler.UpdateAuthorName)
		a.POST("/change-password", session, authHandler.ChangePassword)
		a.POST("/two-factor", session, authHandler.TwoFactor)
		a.GET("/get-user-details", session, authHandler.GetUserDetails)
		a.GET("/verify", session, authHandler.VerifySession)
	}

	// ---- posts & categories
	p := r.Group("/api/posts")
	{
		p.GET("/all-posts", postHandler.GetAll)
		p.GET("/search", postHandler.Search)
		p.GET("/categories", postHandler.GetCategories)
		// registered after the fixed paths so they do not shadow them
		p.GET("/:slug", postHandler.GetBySlug)

		p.POST("/", session, postHandler.Create)
		p.PUT("/:id", session, postHandler.Update)
		p.DELETE("/:id", session, postHandler.Delete)
		p.POST("/categories", session, postHandler.AddCategory)
		p.PUT("/categories/:id", session, postHandler.RenameCategory)
	}

	// ---- legal pages
	l := r.Group("/api/legal")
	{
		l.GET("/:type", legalHandler.Get)
		l.POST("/:type", session, adminOnly, legalHandler.Update)
	}

	// ---- newsletter & contact
	r.POST("/api/subscribe", subscribeHandler.Subscribe)
	r.GET("/api/subscribe/verify", subscribeHandler.Verify)
	r.POST("/api/contact", contactHandler.Submit)

	return r
}
