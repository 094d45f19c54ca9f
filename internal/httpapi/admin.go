package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dj-booking/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultInquiryLimit = 50

type StatusUpdateDTO struct {
	Status string `json:"status"`
}

// GET /api/v1/admin/inquiries?limit=N
func (s *Server) ListInquiries(w http.ResponseWriter, r *http.Request) {
	limit := defaultInquiryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	inquiries, err := s.store.ListInquiries(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list inquiries", zap.Int("limit", limit), zap.Error(err))
		s.metrics.ErrorsTotal.WithLabelValues("http").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list inquiries")
		return
	}
	if inquiries == nil {
		inquiries = []storage.Inquiry{}
	}

	respondJSON(w, http.StatusOK, inquiries)
}

// PATCH /api/v1/admin/inquiries/{id}
func (s *Server) UpdateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid inquiry id")
		return
	}

	var dto StatusUpdateDTO
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err = s.store.UpdateInquiryStatus(r.Context(), id, dto.Status)
	switch {
	case errors.Is(err, storage.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be one of new, contacted, booked, cancelled")
		return
	case errors.Is(err, storage.ErrInquiryNotFound):
		respondError(w, http.StatusNotFound, "not_found", "inquiry not found")
		return
	case err != nil:
		s.logger.Error("Failed to update inquiry status",
			zap.Int64("inquiry_id", id),
			zap.String("status", dto.Status),
			zap.Error(err))
		s.metrics.ErrorsTotal.WithLabelValues("http").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update inquiry")
		return
	}

	s.logger.Info("Inquiry status updated",
		zap.Int64("inquiry_id", id),
		zap.String("status", dto.Status))
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "status": dto.Status})
}

// GET /api/v1/admin/stats
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetInquiryStatistics(r.Context())
	if err != nil {
		s.logger.Error("Failed to get inquiry statistics", zap.Error(err))
		s.metrics.ErrorsTotal.WithLabelValues("http").Inc()
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
