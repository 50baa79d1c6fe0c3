package http

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/filter"
)

type eruptionsResponse struct {
	Count int                       `json:"count"`
	Rows  []domain.EnrichedEruption `json:"rows"`
}

type statsResponse struct {
	Fingerprint  string       `json:"fingerprint"`
	BuiltAt      time.Time    `json:"built_at"`
	Stats        domain.Stats `json:"stats"`
	FallbackRate float64      `json:"fallback_rate"`
}

type boundsResponse struct {
	filter.Bounds
	DefaultVEIs []float64 `json:"default_veis"`
}

func (s *Server) handleEruptions(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.filtered(w, r, "eruptions")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, eruptionsResponse{Count: len(rows), Rows: rows})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.filtered(w, r, "summary")
	if !ok {
		return
	}
	minPerCountry := s.minPerCountry
	if v := r.URL.Query().Get("min_per_country"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			minPerCountry = n
		}
	}
	writeJSON(w, http.StatusOK, filter.Summarize(rows, minPerCountry))
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	table, err := s.source.Table(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}
	def := filter.DefaultPredicate(table.Rows)
	resp := boundsResponse{Bounds: filter.ComputeBounds(table.Rows)}
	if def.VEI != nil {
		resp.DefaultVEIs = def.VEI.Values()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	table, err := s.source.Table(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Fingerprint:  table.Fingerprint,
		BuiltAt:      table.BuiltAt,
		Stats:        table.Stats,
		FallbackRate: table.Stats.FallbackRate(),
	})
}

// filtered applies the request's predicate to the table. It writes an error
// response and returns false only when the table is unavailable.
func (s *Server) filtered(w http.ResponseWriter, r *http.Request, endpoint string) ([]domain.EnrichedEruption, bool) {
	s.metrics.FilterRequests.WithLabelValues(endpoint).Inc()

	table, err := s.source.Table(r.Context())
	if err != nil {
		s.unavailable(w, err)
		return nil, false
	}

	p, ok := parsePredicate(r.URL.Query())
	if !ok {
		s.logger.Debug("malformed filter, returning empty view", "query", r.URL.RawQuery)
	}

	start := time.Now()
	rows := filter.Apply(table.Rows, p)
	s.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	return rows, true
}

func (s *Server) unavailable(w http.ResponseWriter, err error) {
	s.logger.Error("enriched table unavailable", "error", err)
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status": "unavailable",
		"error":  err.Error(),
	})
}

// parsePredicate builds a predicate from year_min, year_max, vei, and category
// query parameters. vei and category accept repeated or comma-separated values;
// vei=unknown admits rows without a VEI. Absent parameters leave their
// dimension unconstrained. Malformed input yields filter.MatchNone and false.
func parsePredicate(q url.Values) (filter.Predicate, bool) {
	var p filter.Predicate

	if q.Has("year_min") || q.Has("year_max") {
		lo, okLo := parseYear(q, "year_min", math.MinInt)
		hi, okHi := parseYear(q, "year_max", math.MaxInt)
		if !okLo || !okHi {
			return filter.MatchNone(), false
		}
		p.Years = &filter.YearRange{Min: lo, Max: hi}
	}

	if q.Has("vei") {
		var values []float64
		unknown := false
		for _, v := range splitValues(q["vei"]) {
			switch strings.ToLower(v) {
			case "unknown", "null", "none":
				unknown = true
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) {
				return filter.MatchNone(), false
			}
			values = append(values, f)
		}
		set := filter.NewVEISet(values, unknown)
		p.VEI = &set
	}

	if q.Has("category") {
		var cats []domain.Category
		for _, v := range splitValues(q["category"]) {
			c, ok := domain.ParseCategory(v)
			if !ok {
				return filter.MatchNone(), false
			}
			cats = append(cats, c)
		}
		set := filter.NewCategorySet(cats...)
		p.Categories = &set
	}

	return p, true
}

func parseYear(q url.Values, key string, def int) (int, bool) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// splitValues flattens repeated and comma-separated parameter values, dropping
// blanks.
func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
