package server

import (
	"encoding/json"
	"net/http"

	"parttracker/internal/model"
)

func (s Server) health() http.HandlerFunc {
	type response struct {
		Status               string  `json:"status"`
		USDToCAD             float64 `json:"usd_to_cad"`
		NotificationsEnabled bool    `json:"notifications_enabled"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.DB.SettingsFind(r.Context())
		if err != nil {
			s.Logger.Errorf("health: Error getting NotificationSettings, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{
			Status:               "ok",
			USDToCAD:             s.Client.USDToCAD(r.Context()),
			NotificationsEnabled: settings.NotificationsEnabled,
		}, http.StatusOK)
	}
}

func (s Server) settingsGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.DB.SettingsFind(r.Context())
		if err != nil {
			s.Logger.Errorf("settingsGet: Error getting NotificationSettings, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, settings, http.StatusOK)
	}
}

func (s Server) settingsSet() http.HandlerFunc {
	type request struct {
		PushbulletAPIKey     *string `json:"pushbullet_api_key"`
		NotificationsEnabled *bool   `json:"notifications_enabled"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("settingsSet: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		// Omitted fields keep their current values.
		current, err := s.DB.SettingsFind(r.Context())
		if err != nil {
			s.Logger.Errorf("settingsSet: Error getting NotificationSettings, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if req.PushbulletAPIKey != nil {
			current.PushbulletAPIKey = *req.PushbulletAPIKey
		}
		if req.NotificationsEnabled != nil {
			current.NotificationsEnabled = *req.NotificationsEnabled
		}

		if err := s.DB.SettingsUpsert(r.Context(), model.NotificationSettings{
			PushbulletAPIKey:     current.PushbulletAPIKey,
			NotificationsEnabled: current.NotificationsEnabled,
		}); err != nil {
			s.Logger.Errorf("settingsSet: Error upserting NotificationSettings, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, okResponse{OK: true}, http.StatusOK)
	}
}
