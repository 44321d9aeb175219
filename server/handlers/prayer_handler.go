package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"salat-server/models/prayer"
	"salat-server/prayertime"
	services "salat-server/service"
	"salat-server/util"
)

const (
	LAT_QUERY_ARG      = "lat"
	LON_QUERY_ARG      = "lon"
	DATE_QUERY_ARG     = "date"
	LOCATION_QUERY_ARG = "location"
	REFRESH_QUERY_ARG  = "refresh"
)

// PrayerResolver is the part of PrayerTimeService the handlers need.
type PrayerResolver interface {
	Resolve(ctx context.Context, req prayer.ResolutionRequest) (*services.Resolution, error)
	Now() time.Time
}

// NextPrayerResponse is the resolution plus what a home screen renders from it.
type NextPrayerResponse struct {
	Resolution       *services.Resolution      `json:"resolution"`
	Now              string                    `json:"now"`
	Checklist        []prayertime.PrayerStatus `json:"checklist"`
	Next             prayertime.Next           `json:"next"`
	Remaining        string                    `json:"remaining"`
	RemainingMinutes int                       `json:"remaining_minutes"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

type PrayerHandler struct {
	resolver PrayerResolver
}

func NewPrayerHandler(resolver PrayerResolver) *PrayerHandler {
	return &PrayerHandler{resolver: resolver}
}

// GetPrayerTimes handles GET /v1/prayer-times
func (h *PrayerHandler) GetPrayerTimes(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseArgs(r.URL.Query(), w)
	if !ok {
		return // error already written
	}

	resolution, err := h.resolver.Resolve(r.Context(), req)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resolution)
}

// GetNextPrayer handles GET /v1/prayer-times/next
func (h *PrayerHandler) GetNextPrayer(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseArgs(r.URL.Query(), w)
	if !ok {
		return
	}

	resolution, err := h.resolver.Resolve(r.Context(), req)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	response, err := BuildNextPrayerResponse(resolution, h.resolver.Now())
	if err != nil {
		log.Error().Err(err).Str("component", "PrayerHandler").Str("date", resolution.Date).Msg("cannot compute next prayer")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// GetPrayerChart handles GET /v1/prayer-times/chart
func (h *PrayerHandler) GetPrayerChart(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseArgs(r.URL.Query(), w)
	if !ok {
		return
	}

	resolution, err := h.resolver.Resolve(r.Context(), req)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := util.PlotPrayerDay(&buf, resolution.Date, resolution.LocationName, resolution.Table); err != nil {
		log.Error().Err(err).Str("component", "PrayerHandler").Msg("cannot render prayer chart")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Ping handles GET /ping
func (h *PrayerHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

// BuildNextPrayerResponse derives checklist, next prayer and countdown at now.
func BuildNextPrayerResponse(resolution *services.Resolution, now time.Time) (*NextPrayerResponse, error) {
	checklist, err := prayertime.Checklist(resolution.Table, now)
	if err != nil {
		return nil, err
	}
	next, err := prayertime.NextPrayer(resolution.Table, now)
	if err != nil {
		return nil, err
	}
	remaining, err := prayertime.Countdown(next, now)
	if err != nil {
		return nil, err
	}
	return &NextPrayerResponse{
		Resolution:       resolution,
		Now:              now.Format("15:04"),
		Checklist:        checklist,
		Next:             next,
		Remaining:        prayertime.FormatRemaining(remaining),
		RemainingMinutes: int(remaining.Minutes()),
	}, nil
}

func (h *PrayerHandler) parseArgs(vals url.Values, w http.ResponseWriter) (req prayer.ResolutionRequest, ok bool) {
	var err error

	req.Latitude, err = parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid argument " + LAT_QUERY_ARG})
		return
	}
	req.Longitude, err = parseArgFloat64(vals, LON_QUERY_ARG)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid argument " + LON_QUERY_ARG})
		return
	}
	req.Date = vals.Get(DATE_QUERY_ARG)
	req.LocationName = vals.Get(LOCATION_QUERY_ARG)
	if v := vals.Get(REFRESH_QUERY_ARG); v != "" {
		req.ForceRefresh, err = strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid argument " + REFRESH_QUERY_ARG})
			return
		}
	}
	ok = true
	return
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	s := vals.Get(name)
	return strconv.ParseFloat(s, 64)
}

func writeResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrPrayerTimesUnavailable):
		log.Warn().Err(err).Str("component", "PrayerHandler").Msg("prayer times unavailable")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     fmt.Sprintf("prayer times unavailable, try again: %v", err),
			Retryable: true,
		})
	default:
		log.Error().Err(err).Str("component", "PrayerHandler").Msg("resolve failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Str("component", "PrayerHandler").Msg("error encoding response")
	}
}
