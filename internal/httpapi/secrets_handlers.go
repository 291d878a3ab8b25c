package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"salarydash/internal/config"
	"salarydash/internal/secrets"
	"salarydash/internal/source"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
	Cache  *source.Cache
}

type setTokenReq struct {
	Token string `json:"token"`
}

func (h SecretsHandler) account() string {
	return h.CfgVal.Load().(config.Config).Source.KeyringAccount
}

func (h SecretsHandler) SetToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := secrets.SetAPIToken(h.account(), req.Token); err != nil {
		h.keyringError(w, r, err)
		return
	}
	h.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteAPIToken(h.account()); err != nil {
		h.keyringError(w, r, err)
		return
	}
	h.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) keyringError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, secrets.ErrNoAccount) {
		writeErr(w, r, err)
		return
	}
	WriteError(w, r, http.StatusBadRequest, "keyring_failed", err.Error())
}
