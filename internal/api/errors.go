package api

import (
	"encoding/json"
	"net/http"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (a *api) jsonMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(messageResponse{Message: message})
}

func (a *api) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	a.jsonMessage(w, status, message)
}
