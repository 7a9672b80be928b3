package httpserver

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope keeps "error" a plain string: the frontend shows it as is.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON отдаёт payload как JSON с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// WriteJSONError возвращает ошибку в едином формате.
func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	_ = WriteJSON(w, status, errorEnvelope{
		Error: message,
		Code:  code,
	})
}

// WriteTextError отвечает текстом, для эндпоинтов, которые не говорят на JSON.
func WriteTextError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
