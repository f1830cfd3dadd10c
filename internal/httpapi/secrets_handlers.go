package httpapi

import (
	"encoding/json"
	"net/http"

	"leadengine/internal/secrets"
)

type SecretsHandler struct{}

type setKeyReq struct {
	Key string `json:"key"`
}

func (h SecretsHandler) SetGeocoderKey(w http.ResponseWriter, r *http.Request) {
	var req setKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := secrets.SetGeocoderKey(req.Key); err != nil {
		http.Error(w, "failed to store key: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) SetCompsKey(w http.ResponseWriter, r *http.Request) {
	var req setKeyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := secrets.SetCompsKey(req.Key); err != nil {
		http.Error(w, "failed to store key: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
