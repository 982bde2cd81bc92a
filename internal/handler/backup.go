package handler

import (
	"net/http"

	"github.com/gmgoals/goals/internal/metrics"
	"github.com/gmgoals/goals/internal/service"
)

type BackupHandler struct {
	backupService *service.BackupService
	metrics       *metrics.Metrics
}

func NewBackupHandler(backupService *service.BackupService, m *metrics.Metrics) *BackupHandler {
	return &BackupHandler{backupService: backupService, metrics: m}
}

func (h *BackupHandler) Backup(w http.ResponseWriter, r *http.Request) {
	result, err := h.backupService.Backup(r.Context())
	h.metrics.BackupRun(err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
