package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"happythoughts/internal/config"
	"happythoughts/internal/handler"
	"happythoughts/internal/logger"
	"happythoughts/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *logger.Logger,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	thoughtHandler *handler.ThoughtHandler,
	healthHandler *handler.HealthHandler,
) {
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(log)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(handler.ContextLogger(log))
	e.Use(handler.Metrics())
	e.Use(handler.RequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireToken := handler.RequireToken(authService)

	e.POST("/signup", authHandler.Signup)
	e.POST("/signin", authHandler.Signin)

	e.GET("/thoughts", thoughtHandler.ListThoughts, requireToken)
	if cfg.GateNewThought {
		e.POST("/newthought", thoughtHandler.CreateThought, requireToken)
	} else {
		e.POST("/newthought", thoughtHandler.CreateThought)
	}
	e.POST("/:thoughtId/like", thoughtHandler.LikeThought)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
