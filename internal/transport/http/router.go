// SPDX-License-Identifier: Apache-2.0

package httptransport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/adiadia/meetfit/internal/domain"
	"github.com/adiadia/meetfit/internal/events"
	"github.com/adiadia/meetfit/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	ProfileRepo ProfileStore
	EventRepo   EventStore
	Broadcast   Broadcaster
	Health      HealthChecker
	Logger      *slog.Logger
	Version     string
	Commit      string
	BuildDate   string
}

func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics.Init()

	broadcast := deps.Broadcast
	if broadcast == nil {
		broadcast = &events.NoopPublisher{}
	}

	version := valueOrDefault(deps.Version, "dev")
	commit := valueOrDefault(deps.Commit, "none")
	buildDate := valueOrDefault(deps.BuildDate, "unknown")

	r := chi.NewRouter()
	r.Use(requestIDMiddleware())
	r.Use(requestLoggingMiddleware(logger))

	// ---------------- HEALTH ----------------

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("health check hit")
		if deps.Health != nil {
			if err := deps.Health.Check(r.Context()); err != nil {
				logger.Warn("health check failed", "error", err)
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// ---------------- METRICS ----------------

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// ---------------- VERSION ----------------

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    version,
			"commit":     commit,
			"build_date": buildDate,
		})
	})

	r.Route("/api", func(api chi.Router) {

		// ---------------- CREATE PROFILE ----------------

		api.Post("/profiles", func(w http.ResponseWriter, r *http.Request) {
			profile, err := decodeProfile(r)
			if err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}

			logger.Debug("rest request to create profile", "profile", profile)
			createProfile(w, r, deps.ProfileRepo, broadcast, logger, profile)
		})

		// ---------------- UPDATE PROFILE ----------------

		api.Put("/profiles", func(w http.ResponseWriter, r *http.Request) {
			profile, err := decodeProfile(r)
			if err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}

			logger.Debug("rest request to update profile", "profile", profile)

			// An update without an ID is a create.
			if profile.ID == nil {
				createProfile(w, r, deps.ProfileRepo, broadcast, logger, profile)
				return
			}

			saved, err := deps.ProfileRepo.Save(r.Context(), profile)
			if err != nil {
				metrics.IncProfileRequest(metrics.ActionUpdate, metrics.OutcomeError)
				logger.Error("update profile failed", "profile_id", *profile.ID, "error", err)
				http.Error(w, "failed to update profile", http.StatusInternalServerError)
				return
			}

			metrics.IncProfileRequest(metrics.ActionUpdate, metrics.OutcomeOK)
			publishBestEffort(r, broadcast, logger, events.TopicProfileUpdated, saved)

			setEntityAlert(w.Header(), "profile", "updated", strconv.FormatInt(*saved.ID, 10))
			writeJSON(w, http.StatusOK, saved)
		})

		// ---------------- LIST PROFILES ----------------

		api.Get("/profiles", func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("rest request to list profiles")

			profiles, err := deps.ProfileRepo.FindAll(r.Context())
			if err != nil {
				metrics.IncProfileRequest(metrics.ActionList, metrics.OutcomeError)
				logger.Error("list profiles failed", "error", err)
				http.Error(w, "failed to list profiles", http.StatusInternalServerError)
				return
			}

			metrics.IncProfileRequest(metrics.ActionList, metrics.OutcomeOK)
			writeJSON(w, http.StatusOK, profiles)
		})

		// ---------------- GET PROFILE ----------------

		api.Get("/profiles/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := parseID(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "invalid profile ID", http.StatusBadRequest)
				return
			}

			logger.Debug("rest request to get profile", "profile_id", id)

			profile, err := deps.ProfileRepo.FindByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					metrics.IncProfileRequest(metrics.ActionGet, metrics.OutcomeNotFound)
					logger.Warn("profile not found", "profile_id", id)
					http.Error(w, "profile not found", http.StatusNotFound)
					return
				}

				metrics.IncProfileRequest(metrics.ActionGet, metrics.OutcomeError)
				logger.Error("get profile failed", "profile_id", id, "error", err)
				http.Error(w, "failed to get profile", http.StatusInternalServerError)
				return
			}

			metrics.IncProfileRequest(metrics.ActionGet, metrics.OutcomeOK)
			writeJSON(w, http.StatusOK, profile)
		})

		// ---------------- DELETE PROFILE ----------------

		api.Delete("/profiles/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := parseID(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "invalid profile ID", http.StatusBadRequest)
				return
			}

			logger.Debug("rest request to delete profile", "profile_id", id)

			// Deleting an absent profile still reports ok.
			if err := deps.ProfileRepo.DeleteByID(r.Context(), id); err != nil {
				metrics.IncProfileRequest(metrics.ActionDelete, metrics.OutcomeError)
				logger.Error("delete profile failed", "profile_id", id, "error", err)
				http.Error(w, "failed to delete profile", http.StatusInternalServerError)
				return
			}

			metrics.IncProfileRequest(metrics.ActionDelete, metrics.OutcomeOK)
			publishBestEffort(r, broadcast, logger, events.TopicProfileDeleted, map[string]int64{"id": id})

			setEntityAlert(w.Header(), "profile", "deleted", strconv.FormatInt(id, 10))
			w.WriteHeader(http.StatusOK)
		})

		// ---------------- LIST EVENTS ----------------

		api.Get("/events", func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("rest request to list events")

			evs, err := deps.EventRepo.FindAll(r.Context())
			if err != nil {
				logger.Error("list events failed", "error", err)
				http.Error(w, "failed to list events", http.StatusInternalServerError)
				return
			}

			writeJSON(w, http.StatusOK, evs)
		})

		// ---------------- GET EVENT ----------------

		api.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := parseID(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "invalid event ID", http.StatusBadRequest)
				return
			}

			logger.Debug("rest request to get event", "event_id", id)

			ev, err := deps.EventRepo.FindByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					logger.Warn("event not found", "event_id", id)
					http.Error(w, "event not found", http.StatusNotFound)
					return
				}

				logger.Error("get event failed", "event_id", id, "error", err)
				http.Error(w, "failed to get event", http.StatusInternalServerError)
				return
			}

			writeJSON(w, http.StatusOK, ev)
		})

		// ---------------- UPDATE EVENT ----------------

		api.Put("/events", func(w http.ResponseWriter, r *http.Request) {
			ev, err := decodeEvent(r)
			if err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			if ev.ID == 0 {
				http.Error(w, "invalid event ID", http.StatusBadRequest)
				return
			}

			logger.Debug("rest request to update event", "event_id", ev.ID)

			saved, err := deps.EventRepo.Save(r.Context(), ev)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					logger.Warn("event not found", "event_id", ev.ID)
					setFailureAlert(w.Header(), "event", "notfound")
					http.Error(w, "event not found", http.StatusNotFound)
					return
				}

				logger.Error("update event failed", "event_id", ev.ID, "error", err)
				http.Error(w, "failed to update event", http.StatusInternalServerError)
				return
			}

			// Listening detail views refresh from this broadcast.
			publishBestEffort(r, broadcast, logger, events.TopicEventUpdated, saved)

			setEntityAlert(w.Header(), "event", "updated", strconv.FormatInt(saved.ID, 10))
			writeJSON(w, http.StatusOK, saved)
		})
	})

	return r
}

// createProfile serves POST /api/profiles and the ID-less PUT that falls
// back to it. Creating a record that already carries an ID is rejected
// without touching the store.
func createProfile(
	w http.ResponseWriter,
	r *http.Request,
	store ProfileStore,
	broadcast Broadcaster,
	logger *slog.Logger,
	profile domain.Profile,
) {
	if profile.ID != nil {
		metrics.IncProfileRequest(metrics.ActionCreate, metrics.OutcomeRejected)
		logger.Debug("create profile rejected: id already set", "profile_id", *profile.ID)
		setFailureAlert(w.Header(), "profile", "idexists")
		http.Error(w, domain.ErrIDExists.Error(), http.StatusBadRequest)
		return
	}

	saved, err := store.Save(r.Context(), profile)
	if err != nil {
		metrics.IncProfileRequest(metrics.ActionCreate, metrics.OutcomeError)
		logger.Error("create profile failed", "error", err)
		http.Error(w, "failed to create profile", http.StatusInternalServerError)
		return
	}

	metrics.IncProfileRequest(metrics.ActionCreate, metrics.OutcomeOK)
	publishBestEffort(r, broadcast, logger, events.TopicProfileCreated, saved)

	id := strconv.FormatInt(*saved.ID, 10)
	w.Header().Set("Location", "/api/profiles/"+id)
	setEntityAlert(w.Header(), "profile", "created", id)
	writeJSON(w, http.StatusCreated, saved)
}

func publishBestEffort(r *http.Request, broadcast Broadcaster, logger *slog.Logger, topic string, payload any) {
	if err := broadcast.Publish(r.Context(), topic, payload); err != nil {
		logger.Warn("broadcast failed", "topic", topic, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeProfile(r *http.Request) (domain.Profile, error) {
	var profile domain.Profile
	if err := decodeJSONBody(r, &profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func decodeEvent(r *http.Request) (domain.Event, error) {
	var ev domain.Event
	if err := decodeJSONBody(r, &ev); err != nil {
		return domain.Event{}, err
	}
	return ev, nil
}

func decodeJSONBody(r *http.Request, v any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return errors.New("missing request body")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}

	// Ensure there is only one JSON object.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain exactly one JSON object")
	}

	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", raw, err)
	}
	return id, nil
}

func valueOrDefault(value, defaultValue string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	return trimmed
}
