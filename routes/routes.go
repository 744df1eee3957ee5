package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"salonbook-backend/config"
	"salonbook-backend/controllers"
	"salonbook-backend/models"
	"salonbook-backend/utils"
)

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is what the controllers persist through; *store.Store satisfies it.
type Store interface {
	controllers.UserStore
	controllers.SalonStore
	controllers.AppointmentStore
	controllers.InvoiceStore
	controllers.InvitationStore
	controllers.GalleryStore
	controllers.DemoRequestStore
	controllers.ReportStore
}

// Deps carries everything the router wires into the controllers.
type Deps struct {
	Config   *config.Config
	Log      *logrus.Logger
	Metrics  *config.Metrics
	Store    Store
	DB       Pinger
	Tokens   *utils.TokenManager
	Limiter  *utils.RateLimiter
	Notifier interface {
		controllers.StatusNotifier
		controllers.InvitationSender
	}
	Images controllers.ImageStore
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = controllers.MaxImageSize + 1<<20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(d.Log, d.Metrics))
	r.Use(requestLogger(d.Log))

	r.GET("/healthz", health(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))

	loc := d.Config.Location
	st := d.Store

	authCtl := controllers.NewAuthController(st, d.Tokens)
	salonCtl := controllers.NewSalonController(st, st, st, d.Images)
	serviceCtl := controllers.NewServiceController(st, st)
	apptCtl := controllers.NewAppointmentController(st, st, st, d.Notifier, d.Metrics, loc)
	invoiceCtl := controllers.NewInvoiceController(st, st, st)
	inviteCtl := controllers.NewInvitationController(st, st, st, d.Notifier, d.Tokens, d.Config.InvitationTTL, d.Config.FrontendURL)
	galleryCtl := controllers.NewGalleryController(st, st, st, d.Images)
	demoCtl := controllers.NewDemoRequestController(st)
	adminCtl := controllers.NewAdminController(st, st, st)
	dashboardCtl := controllers.NewDashboardController(st, st, st, st, loc)
	reportCtl := controllers.NewReportController(st, st, st, loc)

	requireAuth := utils.AuthMiddleware(d.Tokens)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", d.Limiter.Middleware(), authCtl.Register)
		auth.POST("/login", d.Limiter.Middleware(), authCtl.Login)
		auth.POST("/logout", authCtl.Logout)

		auth.Use(requireAuth)
		auth.GET("/me", authCtl.Me)
		auth.PUT("/me", authCtl.UpdateMe)
		auth.PUT("/password", authCtl.ChangePassword)
	}

	// Public salon browsing
	salons := api.Group("/salons")
	{
		salons.GET("", salonCtl.ListSalons)
		salons.GET("/:id", utils.OptionalAuth(d.Tokens), salonCtl.GetSalon)
		salons.GET("/:id/services", utils.OptionalAuth(d.Tokens), serviceCtl.GetServices)
		salons.GET("/:id/gallery", utils.OptionalAuth(d.Tokens), galleryCtl.ListGallery)
		salons.GET("/:id/availability", apptCtl.Availability)
	}

	// Salon management
	manage := api.Group("/salons", requireAuth)
	{
		manage.POST("", utils.RequireRole(st, models.RoleProfessional, models.RoleAdmin), salonCtl.CreateSalon)
		manage.PUT("/:id", salonCtl.UpdateSalon)
		manage.PUT("/:id/hours", salonCtl.UpdateWorkingHours)
		manage.DELETE("/:id", salonCtl.DeleteSalon)

		manage.POST("/:id/services", serviceCtl.CreateService)
		manage.PUT("/:id/services/:serviceId", serviceCtl.UpdateService)
		manage.DELETE("/:id/services/:serviceId", serviceCtl.DeleteService)

		manage.POST("/:id/gallery", galleryCtl.UploadImage)
		manage.PUT("/:id/gallery/order", galleryCtl.ReorderGallery)
		manage.PUT("/:id/gallery/:imageId/primary", galleryCtl.SetPrimary)
		manage.DELETE("/:id/gallery/:imageId", galleryCtl.DeleteImage)

		manage.GET("/:id/appointments", apptCtl.SalonAppointments)
		manage.GET("/:id/dashboard", dashboardCtl.GetDashboardOverview)
		manage.GET("/:id/reports", reportCtl.GetReportAnalytics)

		manage.POST("/:id/invitations", inviteCtl.CreateInvitation)
		manage.GET("/:id/invitations", inviteCtl.ListInvitations)
		manage.DELETE("/:id/invitations/:invitationId", inviteCtl.RevokeInvitation)
	}

	api.GET("/my/salons", requireAuth, salonCtl.MySalons)

	appointments := api.Group("/appointments", requireAuth)
	{
		appointments.POST("", apptCtl.CreateAppointment)
		appointments.GET("", apptCtl.MyAppointments)
		appointments.GET("/:id", apptCtl.GetAppointment)
		appointments.PUT("/:id/accept", apptCtl.AcceptAppointment)
		appointments.PUT("/:id/reject", apptCtl.RejectAppointment)
		appointments.PUT("/:id/cancel", apptCtl.CancelAppointment)
	}

	invoices := api.Group("/invoices", requireAuth)
	{
		invoices.GET("", invoiceCtl.GetInvoices)
		invoices.GET("/:id", invoiceCtl.GetInvoice)
		invoices.PUT("/:id/pay", invoiceCtl.PayInvoice)
		invoices.PUT("/:id/void", invoiceCtl.VoidInvoice)
	}

	invitations := api.Group("/invitations")
	{
		invitations.GET("/:token", inviteCtl.ViewInvitation)
		invitations.POST("/:token/accept", d.Limiter.Middleware(), inviteCtl.AcceptInvitation)
	}

	demos := api.Group("/demo-requests")
	{
		demos.POST("", d.Limiter.Middleware(), demoCtl.CreateDemoRequest)
		demos.GET("", requireAuth, utils.RequireRole(st, models.RoleAdmin), demoCtl.ListDemoRequests)
		demos.PUT("/:id", requireAuth, utils.RequireRole(st, models.RoleAdmin), demoCtl.UpdateDemoRequest)
	}

	admin := api.Group("/admin", requireAuth, utils.RequireRole(st, models.RoleAdmin))
	{
		admin.GET("/stats", adminCtl.Stats)
		admin.GET("/salons", adminCtl.ListSalons)
		admin.PUT("/salons/:id/approve", adminCtl.ApproveSalon)
		admin.PUT("/salons/:id/validate", adminCtl.ValidateSalon)
		admin.GET("/users", adminCtl.ListUsers)
		admin.PUT("/users/:id", adminCtl.UpdateUser)
	}

	return r
}

// requestLogger installs a logger carrying the request's method and path for
// the controllers.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(controllers.LoggerKey, log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}))
		c.Next()
	}
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
