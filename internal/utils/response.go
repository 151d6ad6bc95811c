package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"CapIot.energyportal/internal/models"
)

// RespondWithError sends a JSON error response using the APIError model.
func RespondWithError(writer http.ResponseWriter, apiErr models.APIError) {
	status := apiErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	RespondWithJSON(writer, status, apiErr)
}

// RespondWithErr converts err to an APIError and sends it.
func RespondWithErr(writer http.ResponseWriter, err error) {
	RespondWithError(writer, models.AsAPIError(err))
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
