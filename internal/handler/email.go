package handler

import (
	"log/slog"
	"net/http"

	"github.com/gmgoals/goals/internal/metrics"
	"github.com/gmgoals/goals/internal/service"
)

type EmailHandler struct {
	digestService *service.DigestService
	metrics       *metrics.Metrics
}

func NewEmailHandler(digestService *service.DigestService, m *metrics.Metrics) *EmailHandler {
	return &EmailHandler{
		digestService: digestService,
		metrics:       m,
	}
}

// MonthlySummary is called by the scheduler with the cron secret.
func (h *EmailHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	err := h.digestService.SendMonthlySummary(r.Context())
	h.metrics.EmailSent("monthly_summary", err)
	if err != nil {
		slog.ErrorContext(r.Context(), "monthly summary failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Monthly summary sent successfully"})
}

// Test sends the same monthly summary on demand for a signed-in user.
func (h *EmailHandler) Test(w http.ResponseWriter, r *http.Request) {
	err := h.digestService.SendMonthlySummary(r.Context())
	h.metrics.EmailSent("test", err)
	if err != nil {
		slog.ErrorContext(r.Context(), "test email failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Test email sent successfully"})
}
