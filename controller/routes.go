package controller

import (
	"net/http"

	"github.com/Itish41/portfolio-cms/middleware"
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/realtime"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Portfolio *services.Portfolio
	Auth      *services.AuthService
	Standards *services.StandardService
	Templates *services.TemplateService
	Approvals *services.ApprovalService
	Mail      ContactSender
	Hub       *realtime.Hub

	// UploadDir is served under /uploads when set.
	UploadDir   string
	CORSOrigins []string

	// nil limiters disable rate limiting
	GlobalLimit *middleware.RateLimiter
	StrictLimit *middleware.RateLimiter
}

func limit(rl *middleware.RateLimiter) []gin.HandlerFunc {
	if rl == nil {
		return nil
	}
	return []gin.HandlerFunc{rl.Limit()}
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORSMiddleware(d.CORSOrigins))
	router.Use(limit(d.GlobalLimit)...)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.UploadDir != "" {
		router.Static("/uploads", d.UploadDir)
	}

	api := router.Group("/api")
	auth := middleware.Authenticate(d.Auth)
	admin := []gin.HandlerFunc{auth, middleware.RequireRole()}
	strict := limit(d.StrictLimit)

	ac := NewAuthController(d.Auth)
	api.POST("/auth/login", chain(strict, ac.Login)...)
	api.GET("/auth/me", auth, ac.Me)
	api.POST("/users", chain(admin, ac.CreateUser)...)
	api.GET("/users", chain(admin, ac.ListUsers)...)

	p := d.Portfolio
	pc := NewProfileController(p.Profile)
	api.GET("/profile", pc.Get)
	api.PUT("/profile", chain(admin, pc.Update)...)

	sc := NewSiteController(d.Mail, p.Search, p.Resume)
	api.GET("/blogs/search", sc.SearchBlogs)
	api.GET("/resume", sc.Resume)
	api.POST("/contact", chain(strict, sc.Contact)...)

	NewProjectController(p.Projects).Register(api.Group("/projects"), admin...)
	NewSkillController(p.Skills).Register(api.Group("/skills"), admin...)
	NewBlogController(p.Blogs).Register(api.Group("/blogs"), admin...)
	NewEducationController(p.Education).Register(api.Group("/education"), admin...)
	NewExperienceController(p.Experience).Register(api.Group("/experience"), admin...)
	NewTestimonialController(p.Testimonials).Register(api.Group("/testimonials"), admin...)

	standards := api.Group("/standards", auth)
	NewStandardController(d.Standards, d.Approvals).Register(standards)
	if d.Templates != nil {
		NewTemplateController(d.Templates).Register(standards)
	}

	if d.Hub != nil {
		api.GET("/ws/approvals", auth, middleware.RequireRole(models.RoleReviewer), ApprovalFeed(d.Hub))
	}
	return router
}
