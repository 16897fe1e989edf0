package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"relative static path gets base prefixed", "http://localhost:8000", "/static/a.jpg", "http://localhost:8000/static/a.jpg"},
		{"trailing slash on base is collapsed", "http://localhost:8000/", "/static/a.jpg", "http://localhost:8000/static/a.jpg"},
		{"absolute http URL passes through", "http://localhost:8000", "http://cdn.example.com/a.jpg", "http://cdn.example.com/a.jpg"},
		{"absolute https URL passes through", "http://localhost:8000", "https://bucket.example.com/a.jpg", "https://bucket.example.com/a.jpg"},
		{"empty path stays empty", "http://localhost:8000", "", ""},
		{"bare name gets joined", "http://localhost:8000", "a.jpg", "http://localhost:8000/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayURL(tt.base, tt.path))
		})
	}
}
