package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMw)
	r.Use(s.maxBytesMw)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.health()).Methods(http.MethodGet)

	api.HandleFunc("/retailers", s.retailerList()).Methods(http.MethodGet)
	api.HandleFunc("/retailers", s.retailerAdd()).Methods(http.MethodPost)
	api.HandleFunc("/retailers/{retailerID}/toggle", s.retailerToggle()).Methods(http.MethodPost)
	api.HandleFunc("/retailers/{retailerID}", s.retailerDelete()).Methods(http.MethodDelete)

	api.HandleFunc("/builds", s.buildList()).Methods(http.MethodGet)
	api.HandleFunc("/builds", s.buildAdd()).Methods(http.MethodPost)
	api.HandleFunc("/builds/{buildID}/parts", s.buildPartList()).Methods(http.MethodGet)
	api.HandleFunc("/builds/{buildID}/parts", s.buildPartAdd()).Methods(http.MethodPost)
	api.HandleFunc("/builds/{buildID}/parts", s.buildPartRemove()).Methods(http.MethodDelete)

	api.HandleFunc("/product_urls/{oem}", s.productURLList()).Methods(http.MethodGet)
	api.HandleFunc("/product_urls/{oem}", s.productURLUpsert()).Methods(http.MethodPost)
	api.HandleFunc("/product_urls/id/{urlID}", s.productURLDelete()).Methods(http.MethodDelete)

	api.HandleFunc("/refresh", s.refresh()).Methods(http.MethodPost)
	api.HandleFunc("/price_history/{oem}", s.priceHistory()).Methods(http.MethodGet)

	api.HandleFunc("/rules", s.ruleList()).Methods(http.MethodGet)
	api.HandleFunc("/rules", s.ruleAdd()).Methods(http.MethodPost)
	api.HandleFunc("/rules/{ruleID}/toggle", s.ruleToggle()).Methods(http.MethodPost)
	api.HandleFunc("/rules/{ruleID}", s.ruleDelete()).Methods(http.MethodDelete)

	api.HandleFunc("/notifications/settings", s.settingsGet()).Methods(http.MethodGet)
	api.HandleFunc("/notifications/settings", s.settingsSet()).Methods(http.MethodPost)

	api.PathPrefix("").Handler(s.notFoundHandler())

	return r
}
