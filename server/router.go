package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// PrayerRoutes is implemented by handlers.PrayerHandler.
type PrayerRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	GetPrayerTimes(w http.ResponseWriter, r *http.Request)
	GetNextPrayer(w http.ResponseWriter, r *http.Request)
	GetPrayerChart(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	prayerHandler PrayerRoutes
	router        *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(prayerHandler PrayerRoutes, router *mux.Router) *Router {
	return &Router{
		prayerHandler: prayerHandler,
		router:        router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(RequestLogger)

	r.router.HandleFunc("/ping", r.prayerHandler.Ping).Methods("GET")

	// expects ?lat={latitude(float)}&lon={longitude(float)}[&date=yyyy-MM-dd][&location=label][&refresh=bool]
	r.router.HandleFunc("/v1/prayer-times", r.prayerHandler.GetPrayerTimes).Methods("GET")
	r.router.HandleFunc("/v1/prayer-times/next", r.prayerHandler.GetNextPrayer).Methods("GET")
	r.router.HandleFunc("/v1/prayer-times/chart", r.prayerHandler.GetPrayerChart).Methods("GET")
}
