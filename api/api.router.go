package api

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/waterlab/sensorlog/api/middleware"
	"github.com/waterlab/sensorlog/api/resources"
	_ "github.com/waterlab/sensorlog/docs"
	"github.com/waterlab/sensorlog/internal/config"
	"github.com/waterlab/sensorlog/internal/service"
)

type Router struct {
	router    *mux.Router
	handler   http.Handler
	resources *resources.Resources
}

// NewRouter builds the route table and wraps it with recovery, CORS and, when
// accessLog is non-nil, combined-format access logging.
//
// @title sensorlog API
// @version 1.0
// @description Records environmental sensor readings and serves daily pH averages for charting.
// @BasePath /
func NewRouter(svc *service.Service, cors config.CORSConfig, accessLog io.Writer) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()

	var h http.Handler = r.router
	if accessLog != nil {
		h = handlers.CombinedLoggingHandler(accessLog, h)
	}
	h = handlers.CORS(
		handlers.AllowedOrigins(cors.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.ExposedHeaders([]string{middleware.HeaderRequestID}),
	)(h)
	r.handler = handlers.RecoveryHandler(handlers.RecoveryLogger(middleware.RecoveryLogger{}))(h)

	return r
}

func (r *Router) setupRoutes() {
	r.router.Use(middleware.RequestID)
	// mux skips route middleware for these two
	r.router.NotFoundHandler = middleware.RequestID(http.HandlerFunc(r.resources.System.NotFound))
	r.router.MethodNotAllowedHandler = middleware.RequestID(http.HandlerFunc(r.resources.System.MethodNotAllowed))

	// System
	r.router.HandleFunc("/health", r.resources.System.HealthCheck).Methods(http.MethodGet)
	r.router.HandleFunc("/swagger/doc.json", r.resources.System.SwaggerDoc).Methods(http.MethodGet)

	// Sensor data
	r.router.HandleFunc("/data", r.resources.SensorData.PostData).Methods(http.MethodPost)
	r.router.HandleFunc("/data", r.resources.SensorData.GetData).Methods(http.MethodGet)
	r.router.HandleFunc("/graph-data", r.resources.SensorData.GetGraphData).Methods(http.MethodGet)
	r.router.HandleFunc("/compare-graph-data", r.resources.SensorData.CompareGraphData).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}
