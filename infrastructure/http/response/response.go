package response

import (
	"encoding/json"
	"net/http"

	apperror "github.com/fixora/accounts/pkg/error"
)

// Body is the error and message shape of every non-2xx response. Message is a
// string, or a field to messages object for validation failures.
type Body struct {
	Message interface{} `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func Message(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Body{Message: message})
}

// Error writes err with the status of its kind; unclassified errors become a
// generic failure carrying the error text.
func Error(w http.ResponseWriter, err error) {
	appErr := apperror.MapError(err)
	if appErr.Kind == apperror.KindValidation && len(appErr.Fields) > 0 {
		WriteJSON(w, appErr.HTTPStatus(), Body{Message: appErr.Fields})
		return
	}
	Message(w, appErr.HTTPStatus(), appErr.Error())
}

func BadRequest(w http.ResponseWriter, message string) {
	Message(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Message(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Message(w, http.StatusNotFound, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	Message(w, http.StatusTooManyRequests, message)
}
