package http

import (
	"ShrinkIt-Backend/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

const (
	msgServerError   = "Server error"
	msgNotFound      = "Link not found"
	msgUnauthorized  = "User not authorized"
	msgNameTaken     = "This custom name is already taken. Please choose another."
	msgInvalidFormat = "Invalid request format"
	msgInvalidLinkID = "Invalid link ID"

	codeSlugTaken     = "slug_taken"
	codeDuplicateCode = "duplicate_code"
)

// MessageResponse структура ответа с сообщением.
// Code заполняется там, где клиенту нужно различать ошибки с одинаковым текстом.
type MessageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, log *zap.Logger, status int, message string) {
	writeJSON(w, log, status, MessageResponse{Message: message})
}

// writeServiceError переводит ошибки сервиса в HTTP ответ
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		writeMessage(w, log, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrSlugTaken):
		writeJSON(w, log, http.StatusBadRequest, MessageResponse{Message: msgNameTaken, Code: codeSlugTaken})
	case errors.Is(err, service.ErrDuplicateCode):
		writeJSON(w, log, http.StatusBadRequest, MessageResponse{Message: msgNameTaken, Code: codeDuplicateCode})
	case errors.Is(err, service.ErrUnauthorized):
		writeMessage(w, log, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, log, http.StatusNotFound, msgNotFound)
	default:
		log.Error("request failed", zap.Error(err))
		writeMessage(w, log, http.StatusInternalServerError, msgServerError)
	}
}
