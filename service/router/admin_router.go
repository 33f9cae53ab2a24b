package router

import (
	"net/http"
	"time"

	"github.com/dialogs/dialog-io-service/metric"
	"github.com/dialogs/dialog-io-service/service/info"
	"github.com/mailru/easyjson"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	PathHealth  = "/health"
	PathInfo    = "/info"
	PathMetrics = "/metrics"
)

// AdminRouter router for administration functions
type AdminRouter struct {
	appinfo   *info.Info
	startedAt time.Time
	log       *zap.Logger
	mux       *http.ServeMux
}

// NewAdminRouter create router for administration functions.
// The metrics endpoint is registered when gatherer is not nil.
func NewAdminRouter(appinfo *info.Info, gatherer prometheus.Gatherer, log *zap.Logger) *AdminRouter {

	if log == nil {
		log = zap.NewNop()
	}

	a := &AdminRouter{
		appinfo:   appinfo,
		startedAt: time.Now(),
		log:       log,
	}

	a.mux = http.NewServeMux()
	a.mux.HandleFunc(PathHealth, a.health)
	a.mux.HandleFunc(PathInfo, a.info)

	if gatherer != nil {
		a.mux.Handle(PathMetrics, getOnly(metric.Handler(gatherer, log)))
	}

	return a
}

// Info return application info
func (a *AdminRouter) Info() *info.Info {
	return a.appinfo
}

// HandleFunc registers the handler function for the given pattern
func (a *AdminRouter) HandleFunc(path string, handler http.HandlerFunc) {
	a.mux.HandleFunc(path, handler)
}

// Handle registers the handler for the given pattern
func (a *AdminRouter) Handle(path string, handler http.Handler) {
	a.mux.Handle(path, handler)
}

// ServeHTTP dispatches the request (http.Handler implementation)
func (a *AdminRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	a.mux.ServeHTTP(w, req)
}

// Health handler function for livenness and readiness probes
func (a *AdminRouter) health(w http.ResponseWriter, req *http.Request) {

	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	a.writeJSON(w, info.NewHealth(a.startedAt))
}

// Info returns service information
func (a *AdminRouter) info(w http.ResponseWriter, req *http.Request) {

	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	a.writeJSON(w, a.appinfo)
}

func (a *AdminRouter) writeJSON(w http.ResponseWriter, v easyjson.Marshaler) {

	w.Header().Set("Content-Type", "application/json")

	if _, _, err := easyjson.MarshalToHTTPResponseWriter(v, w); err != nil {
		a.log.Error("failed to write response", zap.Error(err))
	}
}

func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		next.ServeHTTP(w, req)
	})
}
