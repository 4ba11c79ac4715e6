package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asperstar/worldbuilder/internal/apperrors"
	"github.com/asperstar/worldbuilder/pkg/chat"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeBadRequest(w http.ResponseWriter, logger *slog.Logger, msg string) {
	writeJSON(w, logger, http.StatusBadRequest, chat.ErrorResponse{
		Error: msg,
		Code:  string(apperrors.CodeInvalidInput),
	})
}

func writeMethodNotAllowed(w http.ResponseWriter, logger *slog.Logger, allowed string) {
	writeJSON(w, logger, http.StatusMethodNotAllowed, chat.ErrorResponse{
		Error: "Method not allowed. Supported methods: " + allowed,
	})
}

// writeError maps application errors onto the wire. Typed errors carry
// their own status and user-facing message; anything else is a 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if appErr := apperrors.AsError(err); appErr != nil {
		writeJSON(w, logger, appErr.Status, chat.ErrorResponse{
			Error: appErr.Message,
			Code:  string(appErr.Code),
		})
		return
	}
	logger.Error("Unhandled error", "error", err)
	writeJSON(w, logger, http.StatusInternalServerError, chat.ErrorResponse{
		Error: "Internal server error",
		Code:  string(apperrors.CodeInternal),
	})
}
