package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"parttracker/internal/model"
)

func (s Server) buildList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs, err := s.DB.BuildsFindAll(r.Context())
		if err != nil {
			s.Logger.Errorf("buildList: Error getting Builds, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, bs, http.StatusOK)
	}
}

func (s Server) buildAdd() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("buildAdd: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		id, err := s.DB.BuildInsert(r.Context(), model.Build{Name: req.Name})
		if err != nil {
			s.Logger.Errorf("buildAdd: Error inserting Build, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.Logger.Infof("buildAdd: Added Build: %s, ID: %s", req.Name, id)
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusCreated)
	}
}

func (s Server) buildPartList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buildID := mux.Vars(r)["buildID"]
		b, err := s.DB.BuildFindByID(r.Context(), buildID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("buildPartList: Error finding Build with ID: %s, err: %v", buildID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, b.Parts, http.StatusOK)
	}
}

func (s Server) buildPartAdd() http.HandlerFunc {
	type request struct {
		Category string `json:"category"`
		OEM      string `json:"oem"`
		Label    string `json:"label"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		buildID := mux.Vars(r)["buildID"]
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("buildPartAdd: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.Category == "" || req.OEM == "" {
			http.Error(w, "category and oem required", http.StatusBadRequest)
			return
		}
		p := model.Part{Category: req.Category, OEM: req.OEM, Label: req.Label}
		if err := s.DB.BuildAddPart(r.Context(), buildID, p); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("buildPartAdd: Error adding Part to Build with ID: %s, err: %v", buildID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}

func (s Server) buildPartRemove() http.HandlerFunc {
	type request struct {
		Category string `json:"category"`
		OEM      string `json:"oem"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		buildID := mux.Vars(r)["buildID"]
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("buildPartRemove: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.Category == "" || req.OEM == "" {
			http.Error(w, "category and oem required", http.StatusBadRequest)
			return
		}
		if err := s.DB.BuildRemovePart(r.Context(), buildID, req.Category, req.OEM); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("buildPartRemove: Error removing Part from Build with ID: %s, err: %v", buildID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}
