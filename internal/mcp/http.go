package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mediabridge/internal/services"
)

var errBodyTooLarge = errors.New("request body too large")

// Handler returns an http.Handler that accepts one JSON-RPC request per POST
// body. Progress notifications are not delivered over HTTP.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageSize+1))
		if err == nil && len(body) > maxMessageSize {
			err = errBodyTooLarge
		}
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			writeResponse(w, newError(nil, CodeParseError, "parse error"))
			return
		}

		ctx := services.WithTransport(r.Context(), "http")
		resp := s.Handle(ctx, &req, nil)
		if resp == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		writeResponse(w, resp)
	})
}

func writeResponse(w http.ResponseWriter, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
