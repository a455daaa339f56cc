package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/caddystats/content-backend/internal/handler"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/service"
	"github.com/caddystats/content-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	pageHandler *handler.PageHandler,
	templateHandler *handler.TemplateHandler,
	blockHandler *handler.BlockHandler,
	taxonomyHandler *handler.TaxonomyHandler,
	navHandler *handler.NavigationHandler,
	mediaHandler *handler.MediaHandler,
	commerceHandler *handler.CommerceHandler,
	statsHandler *handler.StatsHandler,
	jwtManager *jwt.Manager,
	authService service.AuthService,
) {
	// Public reads attach the viewer when a token is present so drafts
	// stay visible to their authors; writes require a valid token.
	optional := middleware.OptionalAuth(jwtManager, authService)
	required := middleware.JWTAuth(jwtManager, authService)

	api := router.Group("/api/v1")

	// Authentication
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", required, authHandler.Me)

	// Posts
	posts := api.Group("/posts")
	posts.GET("", optional, postHandler.List)
	posts.GET("/:slug", optional, postHandler.Get)
	posts.GET("/:slug/revisions", optional, postHandler.ListRevisions)
	posts.POST("", required, postHandler.Create)
	posts.PATCH("/:id", required, postHandler.Update)
	posts.DELETE("/:id", required, postHandler.Delete)
	posts.POST("/:id/publish", required, postHandler.Publish)
	posts.POST("/:id/unpublish", required, postHandler.Unpublish)
	posts.POST("/:id/archive", required, postHandler.Archive)
	posts.POST("/:id/review", required, postHandler.SubmitForReview)
	posts.PUT("/:id/tags", required, postHandler.SetTags)
	posts.PUT("/:id/categories", required, postHandler.SetCategories)

	// Pages
	pages := api.Group("/pages")
	pages.GET("", optional, pageHandler.List)
	pages.GET("/:slug", optional, pageHandler.Get)
	pages.GET("/:slug/revisions", optional, pageHandler.ListRevisions)
	pages.POST("", required, pageHandler.Create)
	pages.PATCH("/:id", required, pageHandler.Update)
	pages.DELETE("/:id", required, pageHandler.Delete)
	pages.POST("/:id/publish", required, pageHandler.Publish)
	pages.POST("/:id/unpublish", required, pageHandler.Unpublish)
	pages.POST("/:id/archive", required, pageHandler.Archive)
	pages.POST("/:id/review", required, pageHandler.SubmitForReview)

	// Templates
	templates := api.Group("/templates")
	templates.GET("", optional, templateHandler.List)
	templates.GET("/:slug", optional, templateHandler.Get)
	templates.GET("/:slug/revisions", optional, templateHandler.ListRevisions)
	templates.POST("", required, templateHandler.Create)
	templates.PATCH("/:id", required, templateHandler.Update)
	templates.DELETE("/:id", required, templateHandler.Delete)
	templates.POST("/:id/publish", required, templateHandler.Publish)
	templates.POST("/:id/unpublish", required, templateHandler.Unpublish)
	templates.POST("/:id/archive", required, templateHandler.Archive)
	templates.POST("/:id/review", required, templateHandler.SubmitForReview)

	// Layout blocks
	blocks := api.Group("/blocks")
	blocks.GET("", optional, blockHandler.List)
	blocks.POST("", required, blockHandler.Add)
	blocks.PUT("/reorder", required, blockHandler.Reorder)
	blocks.DELETE("/:id", required, blockHandler.Remove)

	// Taxonomy
	tags := api.Group("/tags")
	tags.GET("", taxonomyHandler.ListTags)
	tags.GET("/:slug", taxonomyHandler.GetTag)
	tags.POST("", required, taxonomyHandler.CreateTag)

	categories := api.Group("/categories")
	categories.GET("", taxonomyHandler.ListCategories)
	categories.GET("/:slug", taxonomyHandler.GetCategory)
	categories.POST("", required, taxonomyHandler.CreateCategory)

	// Navigation menus
	nav := api.Group("/nav")
	nav.GET("", navHandler.ListMenus)
	nav.GET("/:slug", navHandler.GetMenu)
	nav.POST("", required, navHandler.CreateMenu)
	nav.POST("/:slug/items", required, navHandler.AddItem)
	nav.DELETE("/:slug/items/:id", required, navHandler.RemoveItem)
	nav.PUT("/:slug/items/reorder", required, navHandler.ReorderItems)

	// Media library
	media := api.Group("/media")
	media.GET("", optional, mediaHandler.List)
	media.GET("/attachments", optional, mediaHandler.ListAttachments)
	media.GET("/:id", optional, mediaHandler.Get)
	media.GET("/:id/download", optional, mediaHandler.DownloadURL)
	media.POST("", required, mediaHandler.Upload)
	media.POST("/attach", required, mediaHandler.Attach)
	media.DELETE("/:id", required, mediaHandler.Delete)

	// Commerce
	products := api.Group("/products")
	products.GET("", optional, commerceHandler.ListProducts)
	products.GET("/:slug", optional, commerceHandler.GetProduct)
	products.POST("", required, commerceHandler.CreateProduct)
	products.PATCH("/:id", required, commerceHandler.UpdateProduct)
	products.DELETE("/:id", required, commerceHandler.DeleteProduct)
	products.POST("/:id/publish", required, commerceHandler.PublishProduct)
	products.POST("/:id/archive", required, commerceHandler.ArchiveProduct)

	purchases := api.Group("/purchases")
	purchases.POST("", required, commerceHandler.Purchase)
	purchases.GET("", required, commerceHandler.ListPurchases)

	licenses := api.Group("/licenses")
	licenses.GET("", required, commerceHandler.ListLicenses)
	// Installed templates phone home with just a key, no account.
	licenses.POST("/verify", commerceHandler.VerifyLicense)

	// Golf stats proxy (read-only, backed by the external Stats API)
	stats := api.Group("/stats/tournaments/:id")
	stats.GET("/leaderboard", statsHandler.Leaderboard)
	stats.GET("/featured-edges", statsHandler.FeaturedEdges)
	stats.GET("/card", statsHandler.TournamentCard)
}
