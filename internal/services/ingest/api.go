package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/agrifog/agrimind/internal/model"
)

// LatestQuerier reads recent readings back from the series store; used as the
// preferred source for /data/latest with the in-memory cache as fallback.
type LatestQuerier interface {
	LatestReading(ctx context.Context, farmID string, lookback time.Duration) (model.SensorData, error)
}

// NewHTTPMux exposes the ingest service's read API.
//
// GET /data/latest?farms=farm1,farm2&minutes=1440
// Tries Influx per farm, falls back to the in-memory cache; the X-Data-Source
// header says which one answered.
func NewHTTPMux(svc *Service, querier LatestQuerier) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /data/latest", func(w http.ResponseWriter, r *http.Request) {
		minutes := 24 * 60
		if v := r.URL.Query().Get("minutes"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				minutes = n
			}
		}

		used := "cache"
		list := svc.Latest()

		if querier != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			fromDB := make([]model.SensorData, 0, len(list))
			for _, cached := range list {
				m, err := querier.LatestReading(ctx, cached.FarmID, time.Duration(minutes)*time.Minute)
				if err != nil {
					fromDB = nil
					break
				}
				fromDB = append(fromDB, m)
			}
			if len(fromDB) > 0 {
				list = fromDB
				used = "influx"
			}
		}

		sort.Slice(list, func(i, j int) bool { return list[i].FarmID < list[j].FarmID })

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", used)
		_ = json.NewEncoder(w).Encode(list)
	})

	return mux
}
