package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/NElyse/FPA-Project/internal/alert"
	"github.com/NElyse/FPA-Project/internal/models"
)

type registerRecipientRequest struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Sector        string `json:"sector"`
	RecipientType string `json:"recipient_type"`
}

func (s *Server) handleRegisterRecipient(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromHeader(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing user ID")
		return
	}

	var req registerRecipientRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.FullName == "" || req.Phone == "" || req.Email == "" || req.Sector == "" || req.RecipientType == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	rec := &models.Recipient{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		Location:     req.Sector,
		Type:         req.RecipientType,
		RegisteredBy: userID,
	}
	if _, err := s.store.InsertRecipient(rec); err != nil {
		log.Printf("api: insert recipient: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to register recipient")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipient registered successfully"})
}

const recipientListLimit = 1000

func (s *Server) handleListRecipients(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromHeader(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing user ID")
		return
	}

	recipients, err := s.store.ListRecipientsByUser(userID, recipientListLimit)
	if err != nil {
		log.Printf("api: list recipients: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch recipients")
		return
	}
	if recipients == nil {
		recipients = []models.Recipient{}
	}
	writeJSON(w, http.StatusOK, recipients)
}

type sendAlertRequest struct {
	Sector         string  `json:"sector"`
	Result         string  `json:"prediction_result"`
	PredictionDate string  `json:"prediction_date"`
	Probability    float64 `json:"probability"`
	Message        string  `json:"message"`
}

// handleSendAlert runs the dispatch for a sector. A sector with no
// registered recipients is a 404, not a failure; individual delivery
// failures never fail the request.
func (s *Server) handleSendAlert(w http.ResponseWriter, r *http.Request) {
	var req sendAlertRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Sector == "" || req.Result == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	date, err := time.Parse("2006-01-02", req.PredictionDate)
	if err != nil {
		if t, err2 := time.Parse(time.RFC3339, req.PredictionDate); err2 == nil {
			date = t
		} else {
			date = time.Now()
		}
	}

	outcome, err := s.dispatcher.Dispatch(r.Context(), alert.Request{
		Sector:      req.Sector,
		Result:      req.Result,
		Date:        date,
		Probability: req.Probability,
		Message:     req.Message,
	})
	if errors.Is(err, alert.ErrNoRecipients) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No recipients found for this location."})
		return
	}
	if err != nil {
		log.Printf("api: send alert: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send alerts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("Alerts sent successfully! SMS: %d, Emails: %d", outcome.SMSSent, outcome.EmailSent),
		"sms_sent":    outcome.SMSSent,
		"emails_sent": outcome.EmailSent,
		"considered":  outcome.Considered,
	})
}
