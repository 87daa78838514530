package handlers

import (
	"encoding/json"
	"net/http"

	"shop-service/db"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.DB != nil {
		if err := db.DB.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(JSONResponse{"status": "unavailable"})
			return
		}
	}

	json.NewEncoder(w).Encode(JSONResponse{"status": "ok"})
}
