package router

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/clinical-data-api/internal/config"
	"github.com/yukikurage/clinical-data-api/internal/constants"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/dto"
	"github.com/yukikurage/clinical-data-api/internal/handlers"
	"github.com/yukikurage/clinical-data-api/internal/middleware"
	"github.com/yukikurage/clinical-data-api/internal/services"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

// New wires services and handlers over store and registers every contract
// route on a gin engine.
func New(cfg *config.Config, store storage.Storage, sessionStore sessions.Store) (*gin.Engine, error) {
	audit := services.NewAuditService(store)
	h := handlers.New(
		services.NewAuthService(store, audit),
		services.NewUserService(store, audit),
		services.NewDatasetService(store, audit, cfg.FileBaseURL),
		services.NewModelService(store, audit),
		audit,
	)

	r := gin.Default()
	r.Use(middleware.Metrics())
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  "ok",
			Message: "Clinical Data API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("", middleware.LoadSession())
	bindings := h.Bindings()
	for _, route := range contract.Routes() {
		handler, ok := bindings[route.Name]
		if !ok {
			return nil, fmt.Errorf("no handler bound for route %s", route.Name)
		}
		chain := []gin.HandlerFunc{handler}
		// auth.me is the only route that refuses anonymous callers.
		if route.Name == contract.AuthMe.Name {
			chain = append([]gin.HandlerFunc{middleware.RequireAuth()}, chain...)
		}
		api.Handle(route.Method, route.Path, chain...)
	}

	return r, nil
}
