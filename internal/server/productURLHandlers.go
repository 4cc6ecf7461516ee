package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"parttracker/internal/model"
)

func (s Server) productURLList() http.HandlerFunc {
	type entry struct {
		model.ProductURL
		RetailerName string `json:"retailer_name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		oem := mux.Vars(r)["oem"]
		pus, err := s.DB.ProductURLsFindByOEM(r.Context(), oem)
		if err != nil {
			s.Logger.Errorf("productURLList: Error getting ProductURLs for OEM: %s, err: %v", oem, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		entries := make([]entry, 0, len(pus))
		for _, pu := range pus {
			e := entry{ProductURL: pu}
			if retailer, err := s.DB.RetailerFindByID(r.Context(), pu.RetailerID.Hex()); err == nil {
				e.RetailerName = retailer.Name
			}
			entries = append(entries, e)
		}
		s.writeJsonResponse(w, entries, http.StatusOK)
	}
}

func (s Server) productURLUpsert() http.HandlerFunc {
	type request struct {
		RetailerID string `json:"retailer_id"`
		URL        string `json:"url"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		oem := mux.Vars(r)["oem"]
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("productURLUpsert: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.RetailerID == "" || req.URL == "" {
			http.Error(w, "retailer_id and url required", http.StatusBadRequest)
			return
		}
		if _, err := url.ParseRequestURI(req.URL); err != nil {
			s.Logger.Debugf("productURLUpsert: Bad url: %s, err: %v", req.URL, err)
			http.Error(w, "invalid url", http.StatusBadRequest)
			return
		}
		retailerID, err := primitive.ObjectIDFromHex(req.RetailerID)
		if err != nil {
			http.Error(w, "invalid retailer_id", http.StatusBadRequest)
			return
		}
		if _, err := s.DB.RetailerFindByID(r.Context(), req.RetailerID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, "retailer not found", http.StatusNotFound)
				return
			}
			s.Logger.Errorf("productURLUpsert: Error finding Retailer with ID: %s, err: %v", req.RetailerID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		pu := model.ProductURL{OEM: oem, RetailerID: retailerID, URL: req.URL}
		if err := s.DB.ProductURLUpsert(r.Context(), pu); err != nil {
			s.Logger.Errorf("productURLUpsert: Error upserting ProductURL for OEM: %s, err: %v", oem, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}

func (s Server) productURLDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		urlID := mux.Vars(r)["urlID"]
		if err := s.DB.ProductURLDelete(r.Context(), urlID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("productURLDelete: Error deleting ProductURL with ID: %s, err: %v", urlID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}

func (s Server) refresh() http.HandlerFunc {
	type response struct {
		Results []model.RefreshOutcome `json:"results"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		outcomes, err := s.RefreshAll(r.Context())
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{Results: outcomes}, http.StatusOK)
	}
}

func (s Server) priceHistory() http.HandlerFunc {
	type entry struct {
		model.PriceObservation
		RetailerName string `json:"retailer_name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		oem := mux.Vars(r)["oem"]
		pos, err := s.DB.ObservationsFindByOEM(r.Context(), oem, 500)
		if err != nil {
			s.Logger.Errorf("priceHistory: Error getting PriceObservations for OEM: %s, err: %v", oem, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		retailerNames := map[string]string{}
		entries := make([]entry, 0, len(pos))
		for _, po := range pos {
			e := entry{PriceObservation: po}
			id := po.RetailerID.Hex()
			if name, ok := retailerNames[id]; ok {
				e.RetailerName = name
			} else if retailer, err := s.DB.RetailerFindByID(r.Context(), id); err == nil {
				retailerNames[id] = retailer.Name
				e.RetailerName = retailer.Name
			}
			entries = append(entries, e)
		}
		s.writeJsonResponse(w, entries, http.StatusOK)
	}
}
