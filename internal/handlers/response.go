package handlers

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape the API uses for auth and failure paths:
// a Result flag plus either a Token or a list of error messages.
type Envelope struct {
	Result bool     `json:"Result"`
	Token  string   `json:"Token,omitempty"`
	Errors []string `json:"Errors,omitempty"`
}

func responseWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func responseWithToken(w http.ResponseWriter, code int, token string) {
	responseWithJSON(w, code, Envelope{Result: true, Token: token})
}

func responseWithErrors(w http.ResponseWriter, code int, messages ...string) {
	responseWithJSON(w, code, Envelope{Result: false, Errors: messages})
}
