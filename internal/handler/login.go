package handler

import (
	"encoding/json"
	"net/http"

	"github.com/leca/showroom-gallery/internal/api"
)

// Login handles POST /api/login. No session or token is issued; the
// response only reports whether the credential pair is valid.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.BadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	if !h.Auth.Authenticate(body.Username, body.Password) {
		api.WriteJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "Invalid credentials",
		})
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login valid",
	})
}
