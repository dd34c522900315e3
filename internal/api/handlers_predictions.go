package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/NElyse/FPA-Project/internal/metrics"
	"github.com/NElyse/FPA-Project/internal/models"
	"github.com/NElyse/FPA-Project/internal/validate"
)

const maxBodyBytes = 1 << 20

// handlePredict relays the client's feature payload to the inference
// service. The payload is forwarded as sent; validation belongs to the save
// path.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := s.inference.Predict(r.Context(), body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to predict flood risk")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSavePrediction(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	rec, errs := validate.CheckSubmission(raw, time.Now())
	if len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs)
		return
	}

	if _, err := s.store.InsertPrediction(rec); err != nil {
		log.Printf("api: insert prediction: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save prediction")
		return
	}

	metrics.PredictionsSaved.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Prediction saved successfully"})
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromHeader(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing user ID")
		return
	}

	predictions, err := s.store.ListPredictionsByUser(userID)
	if err != nil {
		log.Printf("api: list predictions: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch predictions")
		return
	}
	if predictions == nil {
		predictions = []models.Prediction{}
	}
	writeJSON(w, http.StatusOK, predictions)
}

const floodStatusLimit = 10

func (s *Server) handleFloodStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.store.ListRecentStatus(floodStatusLimit)
	if err != nil {
		log.Printf("api: list flood status: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch flood status")
		return
	}
	if statuses == nil {
		statuses = []models.FloodStatus{}
	}
	writeJSON(w, http.StatusOK, statuses)
}
