// Package api assembles the HTTP surface: middleware, routes and the error
// handler.
package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/ulule/limiter/v3"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/natours/booking-api/docs"
	"github.com/natours/booking-api/internal/api/handler"
	"github.com/natours/booking-api/internal/api/middleware"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

const apiPrefix = "/api"

// Deps is everything the router needs to build its handlers.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	UserRepo ports.Repository[domain.User]
	Tours    ports.TourRepository
	Reviews  ports.Repository[domain.Review]

	// Limiter guards every /api route.
	Limiter *limiter.Limiter

	// Mongo and Redis back the readiness probe. Redis may be nil.
	Mongo *mongo.Database
	Redis *redis.Client

	Cookie handler.CookieConfig
	// PublicURL is the externally visible base URL used in mailed links.
	PublicURL  string
	Production bool
	// StaticDir is served at / when set.
	StaticDir string

	Log zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Production)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "natours",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	if d.StaticDir != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root: d.StaticDir,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, apiPrefix)
			},
		}))
	}

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Access pipelines ---
	protect := middleware.Protect(d.Auth)
	loggedIn := middleware.Chain(protect)
	only := func(roles ...domain.Role) echo.MiddlewareFunc {
		return middleware.Chain(protect, middleware.RestrictTo(roles...))
	}
	admin := only(domain.RoleAdmin)
	staff := only(domain.RoleAdmin, domain.RoleLeadGuide)
	reviewer := only(domain.RoleUser)
	reviewOwner := only(domain.RoleUser, domain.RoleAdmin)

	v1 := e.Group(apiPrefix, middleware.RateLimit(d.Limiter, d.Log)).Group("/v1")

	// --- Users ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie, d.PublicURL)
	userHandler := handler.NewUserHandler(d.Users, d.UserRepo)

	users := v1.Group("/users")
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.POST("/forgotPassword", authHandler.ForgotPassword)
	users.PATCH("/resetPassword/:token", authHandler.ResetPassword)

	users.PATCH("/updateMyPassword", authHandler.UpdateMyPassword, loggedIn)
	users.PATCH("/updateMe", userHandler.UpdateMe, loggedIn)
	users.DELETE("/deleteMe", userHandler.DeleteMe, loggedIn)

	users.GET("", userHandler.GetAll(), admin)
	users.POST("", userHandler.CreateUser, admin)
	users.GET("/:id", userHandler.GetOne(), admin)
	users.PATCH("/:id", userHandler.UpdateUser, admin)
	users.DELETE("/:id", userHandler.DeleteOne(), admin)

	// --- Tours ---
	tourHandler := handler.NewTourHandler(d.Tours)
	reviews := handler.NewReviewResource(d.Reviews)

	tours := v1.Group("/tours")
	tours.GET("/top-5-cheap", tourHandler.GetAll(handler.TopCheap()))
	tours.GET("/tour-stats", tourHandler.Stats)
	tours.GET("/monthly-plan/:year", tourHandler.MonthlyPlan)
	tours.GET("", tourHandler.GetAll(), staff)
	tours.POST("", tourHandler.CreateOne(), staff)
	tours.GET("/:id", tourHandler.GetOne())
	tours.PATCH("/:id", tourHandler.UpdateOne(), staff)
	tours.DELETE("/:id", tourHandler.DeleteOne(), staff)

	tours.GET("/:tourId/reviews", reviews.GetAll(handler.TourReviews()), reviewer)
	tours.POST("/:tourId/reviews", reviews.CreateOne(handler.SetTourUserIDs), reviewer)

	// --- Reviews ---
	rv := v1.Group("/reviews")
	rv.GET("", reviews.GetAll())
	rv.POST("", reviews.CreateOne(handler.SetTourUserIDs), reviewer)
	rv.GET("/:id", reviews.GetOne())
	rv.PATCH("/:id", reviews.UpdateOne(), reviewOwner)
	rv.DELETE("/:id", reviews.DeleteOne(), reviewOwner)

	e.RouteNotFound("/*", handler.NotFound)

	return e
}
