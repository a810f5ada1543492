package prober

import (
	"net/http"

	"gopkg.in/yaml.v2"
)

// ServeHTTP renders cached results as YAML. With a location query parameter
// that location is probed first and only its result is rendered.
func (p *Prober) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body interface{}
	if location := r.URL.Query().Get("location"); location != "" {
		body = p.Probe(r.Context(), location)
	} else {
		body = p.Results()
	}

	out, err := yaml.Marshal(body)
	if err != nil {
		p.logger.Error("error rendering results", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(out)
}
