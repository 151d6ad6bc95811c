package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"CapIot.energyportal/internal/controller"
	"CapIot.energyportal/internal/middleware"
)

// SetupRouter defines all dashboard routes. adminAuth guards the
// connection-status panel.
func SetupRouter(c *controller.DashboardController, adminAuth func(http.Handler) http.Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)

	router.HandleFunc("/health", c.HandleHealth).Methods(http.MethodGet)
	router.HandleFunc("/clock", c.HandleClock).Methods(http.MethodGet)

	setupAuthRoutes(router.PathPrefix("/auth").Subrouter(), c)
	setupUsageRoutes(router.PathPrefix("/usage").Subrouter(), c)
	setupBillRoutes(router.PathPrefix("/bill").Subrouter(), c)

	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(adminAuth))
	admin.HandleFunc("/connections", c.HandleConnections).Methods(http.MethodGet)
	admin.HandleFunc("/connections", c.HandleToggleConnection).Methods(http.MethodPost)

	return router
}

func setupAuthRoutes(router *mux.Router, c *controller.DashboardController) {
	router.HandleFunc("/signin", c.HandleSignIn).Methods(http.MethodPost)
	router.HandleFunc("/signup", c.HandleSignUp).Methods(http.MethodPost)
	router.HandleFunc("/signout", c.HandleSignOut).Methods(http.MethodPost)
	router.HandleFunc("/session", c.HandleSession).Methods(http.MethodGet)
}

func setupUsageRoutes(router *mux.Router, c *controller.DashboardController) {
	router.HandleFunc("", c.HandleUsageState).Methods(http.MethodGet)
	router.HandleFunc("/selection", c.HandleUsageSelect).Methods(http.MethodPost)
	router.HandleFunc("/chart", c.HandleUsageChart).Methods(http.MethodGet)
	router.HandleFunc("/options", c.HandleUsageOptions).Methods(http.MethodGet)
	router.HandleFunc("/refresh", c.HandleUsageRefresh).Methods(http.MethodPost)
	router.HandleFunc("/backend", c.HandleBackendUsage).Methods(http.MethodGet)
	if c.Readings != nil {
		router.HandleFunc("/readings", c.HandleWriteReading).Methods(http.MethodPost)
	}
}

func setupBillRoutes(router *mux.Router, c *controller.DashboardController) {
	router.HandleFunc("", c.HandleBill).Methods(http.MethodGet)
	router.HandleFunc("/pay", c.HandlePay).Methods(http.MethodPost)
}
