package service

import (
	"errors"
	"strings"
)

var ErrUnauthorized = errors.New("unauthorized")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Detail       string
}
