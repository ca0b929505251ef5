package status

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Handler serves the registry as a flat JSON object
// An optional ?prefix= query narrows the output, e.g. ?prefix=sim.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := r.Snapshot()
		if prefix := req.URL.Query().Get("prefix"); prefix != "" {
			for k := range snap {
				if !strings.HasPrefix(k, prefix) {
					delete(snap, k)
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	})
}
