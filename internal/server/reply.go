package server

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func writeJSON(_ context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	// The status line is already gone; nothing useful left to send.
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	apiErr := asAPIError(err)

	log := s.logger.Warn
	if apiErr.status >= http.StatusInternalServerError {
		log = s.logger.Error
	}
	log("request failed",
		zap.Int("status", apiErr.status),
		zap.String("code", apiErr.code),
		zap.Error(err),
	)

	writeJSON(ctx, w, apiErr.status, errorResponse{
		Code:      apiErr.code,
		Message:   apiErr.message,
		Retryable: apiErr.retryable,
	})
}
