package api

import (
	"encoding/json"
	"net/http"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/services"
	"github.com/bencao/herbquiz/internal/worker"
)

// Server wires the HTTP surface to the services.
type Server struct {
	CatalogService services.CatalogService
	QuizService    services.QuizService
	LedgerService  services.LedgerService
	ResultService  services.ResultService
	ContentService services.ContentService
	ContentPool    *worker.Pool

	AdminToken  string
	DataDir     string
	CORSOrigins []string

	// MaxImageBytes caps admin image uploads. Zero means the default.
	MaxImageBytes int64
}

const defaultMaxImageBytes = 5 << 20

func (s *Server) maxImageBytes() int64 {
	if s.MaxImageBytes > 0 {
		return s.MaxImageBytes
	}
	return defaultMaxImageBytes
}

// writeJSON renders a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON parses a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}
