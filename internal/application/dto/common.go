package dto

import (
	"fmt"
	"time"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DateLayout formato de salida de fechas (ISO 8601 en UTC con milisegundos).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate serializa una fecha en UTC con DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// FormatDatePtr como FormatDate pero nil se mantiene nil.
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// ParseDate acepta "YYYY-MM-DD" o RFC 3339 (con o sin fracción de segundo).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q", s)
}
