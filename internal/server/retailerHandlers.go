package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"parttracker/internal/model"
)

func (s Server) retailerList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, err := s.DB.RetailersFindAll(r.Context())
		if err != nil {
			s.Logger.Errorf("retailerList: Error getting Retailers, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, rs, http.StatusOK)
	}
}

func (s Server) retailerAdd() http.HandlerFunc {
	type request struct {
		Name            string `json:"name"`
		Domain          string `json:"domain"`
		PriceSelector   string `json:"price_selector"`
		SellerSelector  string `json:"seller_selector"`
		SellerRequired  string `json:"seller_required"`
		DefaultCurrency string `json:"default_currency"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("retailerAdd: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if req.DefaultCurrency == "" {
			req.DefaultCurrency = "CAD"
		}

		// User-added retailers always go through the selector-driven
		// fallback strategy.
		id, err := s.DB.RetailerInsert(r.Context(), model.Retailer{
			Name:            req.Name,
			Domain:          req.Domain,
			PriceSelector:   req.PriceSelector,
			SellerSelector:  req.SellerSelector,
			SellerRequired:  req.SellerRequired,
			DefaultCurrency: req.DefaultCurrency,
			Active:          true,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(errors.Cause(err)) {
				s.Logger.Debugf("retailerAdd: Duplicate Retailer name: %s", req.Name)
				http.Error(w, "retailer name already exists", http.StatusConflict)
				return
			}
			s.Logger.Errorf("retailerAdd: Error inserting Retailer, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.Logger.Infof("retailerAdd: Added Retailer: %s, ID: %s", req.Name, id)
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusCreated)
	}
}

func (s Server) retailerToggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retailerID := mux.Vars(r)["retailerID"]
		if err := s.DB.RetailerToggleActive(r.Context(), retailerID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("retailerToggle: Error toggling Retailer with ID: %s, err: %v", retailerID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}

func (s Server) retailerDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retailerID := mux.Vars(r)["retailerID"]
		if err := s.DB.RetailerDelete(r.Context(), retailerID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("retailerDelete: Error deleting Retailer with ID: %s, err: %v", retailerID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.Logger.Infof("retailerDelete: Deleted Retailer with ID: %s (cascaded to ProductURLs and history)", retailerID)
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}
