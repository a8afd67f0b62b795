package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingQueueID se retorna cuando no se indicó cola y no hay cola por defecto
	ErrMissingQueueID = errors.New("Queue ID is not specified")

	ErrUnauthorized = errors.New("kassa: unauthorized")
	ErrValidation   = errors.New("kassa: validation failed")
	ErrServer       = errors.New("kassa: server error")
)

// Kind clasifica las respuestas de error de la API
type Kind int

const (
	KindServer Kind = iota
	KindAuth
	KindValidation
)

// APIError es una respuesta no exitosa de la API
type APIError struct {
	Kind        Kind
	StatusCode  int
	Title       string
	Description string
}

func (e *APIError) Error() string {
	switch {
	case e.Title != "" && e.Description != "":
		return fmt.Sprintf("kassa API error %d: %s: %s", e.StatusCode, e.Title, e.Description)
	case e.Title != "":
		return fmt.Sprintf("kassa API error %d: %s", e.StatusCode, e.Title)
	default:
		return fmt.Sprintf("kassa API error %d: Server not respond", e.StatusCode)
	}
}

// Is permite comparar con ErrUnauthorized, ErrValidation o ErrServer según Kind
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

// ErrorBody es el cuerpo de error que retorna la API
type ErrorBody struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.Kind = KindAuth
	case http.StatusUnprocessableEntity:
		apiErr.Kind = KindValidation
	default:
		apiErr.Kind = KindServer
	}

	var parsed ErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Title = parsed.Title
		apiErr.Description = parsed.Description
	}
	return apiErr
}
