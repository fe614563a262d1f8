package httpresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	appErrors "akinator/internal/errors"
)

type Response[T any] struct {
	Status int `json:"Status"`
	Body   T   `json:"Body,omitempty"`
}

type ErrorResponse struct {
	ErrorDescription string `json:"ErrorDescription"`
}

const INTERNALERRORJSON = "{\"Status\": 500,\"Body\":{\"ErrorDescription\": \"internal server error\"}}"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	jsonByte, err := marshalStatusJson(status, body)
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonByte)
}

func marshalStatusJson(status int, body any) ([]byte, error) {
	response := Response[any]{
		Status: status,
		Body:   body,
	}
	return json.Marshal(response)
}

// WriteError maps domain errors onto HTTP statuses. Anything unknown is a
// 500 and its text is not exposed.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		WriteInternalErrorResponse(w)
		return
	}
	WriteResponseWithStatus(w, status, ErrorResponse{ErrorDescription: err.Error()})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrSessionBusy):
		return http.StatusConflict
	case errors.Is(err, appErrors.ErrInvalidLabel):
		return http.StatusBadRequest
	case errors.Is(err, appErrors.ErrNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, appErrors.ErrCorruptKnowledgeBase):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func WriteText(w http.ResponseWriter, contentType, text string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, text)
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// like http.Error, only with a JSON content type
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}
