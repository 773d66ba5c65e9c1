package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой. Статус берется из кода ошибки.
func sendError(logger *slog.Logger, w http.ResponseWriter, code apperrors.Code, message string) {
	status := apperrors.MetadataFor(code).HTTPStatus
	sendJSON(logger, w, api.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    string(code),
	}, status)
}

func sendInternalError(logger *slog.Logger, w http.ResponseWriter) {
	sendError(logger, w, apperrors.CodeInternal, "internal server error")
}
