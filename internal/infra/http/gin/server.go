package ginserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"staycal/internal/domain/calendar"
	"staycal/internal/infra/config"
	"staycal/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Get(c *gin.Context)
	AddDays(c *gin.Context)
	UpdateDay(c *gin.Context)
	RemoveDays(c *gin.Context)
	Calendar(c *gin.Context)
	DayMap(c *gin.Context)
}

type PropertyHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Search(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type BookingHTTP interface {
	Request(c *gin.Context)
}

type UserHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	AssignRole(c *gin.Context)
}

type Handlers struct {
	Availability   AvailabilityHTTP
	Property       PropertyHTTP
	Booking        BookingHTTP
	Users          UserHTTP
	AuthMiddleware gin.HandlerFunc
}

var registerBindingsOnce sync.Once

// RegisterBindings installs the calendardate tag on gin's shared binding
// engine so request structs can validate YYYY-MM-DD fields before handlers
// see them.
func RegisterBindings() {
	registerBindingsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
			_, err := calendar.ParseDate(fl.Field().String())
			return err == nil
		})
	})
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	RegisterBindings()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	if h.Property != nil {
		router.GET("/properties", h.Property.List)
		router.POST("/properties", h.Property.Create)
		router.GET("/properties/available", h.Property.Search)
		router.GET("/properties/:id", h.Property.Get)
		router.PUT("/properties/:id", h.Property.Update)
		router.DELETE("/properties/:id", h.Property.Delete)
	}
	if h.Availability != nil {
		router.GET("/properties/availability-calendar", h.Availability.Calendar)
		router.GET("/properties/availability-map", h.Availability.DayMap)
		availGroup := router.Group("/properties/:id/availability")
		availGroup.GET("", h.Availability.Get)
		availGroup.POST("", h.Availability.AddDays)
		availGroup.PUT("", h.Availability.UpdateDay)
		availGroup.DELETE("", h.Availability.RemoveDays)
	}
	if h.Booking != nil {
		router.POST("/properties/:id/booking-request", h.Booking.Request)
	}
	if h.Users != nil {
		adminGroup := router.Group("/admin/users")
		adminGroup.GET("", h.Users.List)
		adminGroup.POST("", h.Users.Create)
		adminGroup.PUT("/:id/role", h.Users.AssignRole)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
