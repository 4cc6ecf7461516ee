package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"parttracker/internal/model"
)

func (s Server) ruleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trs, err := s.DB.RulesFindAll(r.Context())
		if err != nil {
			s.Logger.Errorf("ruleList: Error getting ThresholdRules, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, trs, http.StatusOK)
	}
}

func (s Server) ruleAdd() http.HandlerFunc {
	type request struct {
		OEM          string  `json:"oem"`
		ThresholdCAD float64 `json:"threshold_cad"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("ruleAdd: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.OEM == "" || req.ThresholdCAD <= 0 {
			http.Error(w, "oem and positive threshold_cad required", http.StatusBadRequest)
			return
		}
		id, err := s.DB.RuleInsert(r.Context(), model.ThresholdRule{
			OEM:          req.OEM,
			ThresholdCAD: req.ThresholdCAD,
			Enabled:      true,
		})
		if err != nil {
			s.Logger.Errorf("ruleAdd: Error inserting ThresholdRule, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.Logger.Infof("ruleAdd: Added ThresholdRule for OEM: %s at $%.2f CAD, ID: %s", req.OEM, req.ThresholdCAD, id)
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusCreated)
	}
}

func (s Server) ruleToggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleID := mux.Vars(r)["ruleID"]
		if err := s.DB.RuleToggleEnabled(r.Context(), ruleID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("ruleToggle: Error toggling ThresholdRule with ID: %s, err: %v", ruleID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}

func (s Server) ruleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleID := mux.Vars(r)["ruleID"]
		if err := s.DB.RuleDelete(r.Context(), ruleID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("ruleDelete: Error deleting ThresholdRule with ID: %s, err: %v", ruleID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}
