package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/socialchef/yeschef/internal/config"
	"github.com/socialchef/yeschef/internal/errors"
	"github.com/socialchef/yeschef/internal/middleware"
	"github.com/socialchef/yeschef/internal/orchestrator"
	"github.com/socialchef/yeschef/internal/sentry"
	"github.com/socialchef/yeschef/internal/services/captions"
	"github.com/socialchef/yeschef/internal/services/recipe"
	"github.com/socialchef/yeschef/internal/services/stores"
	"github.com/socialchef/yeschef/internal/worker"
)

const maxWarmBatch = 50

// RecipeRunner runs the recipe pipeline.
type RecipeRunner interface {
	Run(ctx context.Context, req orchestrator.Request) (*orchestrator.Result, error)
}

// FoodValidator classifies free-text input.
type FoodValidator interface {
	ValidateFoodInput(ctx context.Context, query string) recipe.FoodValidation
}

// CaptionSource serves the captions endpoint.
type CaptionSource interface {
	Captions(ctx context.Context, videoID, lang string) *captions.Captions
}

// StoreFinder lists grocery stores near a location.
type StoreFinder interface {
	FindNearby(ctx context.Context, loc stores.Location) []stores.Store
}

// CacheClearer empties the recipe cache.
type CacheClearer interface {
	Clear(ctx context.Context) int
}

// Deps are the collaborators of a Server. Enqueuer may be nil, which
// disables the warm endpoint.
type Deps struct {
	Recipes   RecipeRunner
	Validator FoodValidator
	Captions  CaptionSource
	Stores    StoreFinder
	Cache     CacheClearer
	Enqueuer  worker.Enqueuer
}

type Server struct {
	cfg  *config.Config
	deps Deps
	now  func() time.Time
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	return &Server{cfg: cfg, deps: deps, now: time.Now}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HandleHealth)
	r.Post("/api/recipe", s.HandleRecipe)
	r.Post("/api/captions", s.HandleCaptions)
	r.Post("/api/stores", s.HandleStores)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(s.cfg.AdminJWTSecret))
		r.Post("/api/clear-cache", s.HandleClearCache)
		r.Post("/api/recipe/warm", s.HandleWarmRecipes)
	})
}

type RecipeRequest struct {
	RecipeName   string `json:"recipeName"`
	VideoInput   string `json:"videoInput"`
	Lang         string `json:"lang"`
	ValidateOnly bool   `json:"validateOnly"`
}

type RecipeResponse struct {
	Success   bool                   `json:"success"`
	Data      *orchestrator.Envelope `json:"data,omitempty"`
	FromCache bool                   `json:"fromCache,omitempty"`
}

type ValidationResponse struct {
	Success    bool                  `json:"success"`
	Validation recipe.FoodValidation `json:"validation"`
}

func (s *Server) HandleRecipe(w http.ResponseWriter, r *http.Request) {
	var req RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if req.ValidateOnly {
		validation := s.deps.Validator.ValidateFoodInput(r.Context(), req.RecipeName)
		writeJSON(w, http.StatusOK, ValidationResponse{Success: true, Validation: validation})
		return
	}

	res, err := s.deps.Recipes.Run(r.Context(), orchestrator.Request{
		RecipeName: req.RecipeName,
		VideoInput: req.VideoInput,
		Lang:       req.Lang,
	})
	if err != nil {
		appErr := orchestrator.MapError(err)
		if appErr.StatusCode >= http.StatusInternalServerError {
			sentry.CaptureError(r.Context(), err, map[string]string{"endpoint": "recipe", "error_code": appErr.ErrorCode})
		}
		s.writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, RecipeResponse{
		Success:   true,
		Data:      &res.Data,
		FromCache: res.FromCache,
	})
}

type CaptionsRequest struct {
	VideoInput string `json:"videoInput"`
	Lang       string `json:"lang"`
}

type CaptionsData struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Subtitles   []captions.Subtitle `json:"subtitles"`
	VideoID     string              `json:"videoId"`
}

func (s *Server) HandleCaptions(w http.ResponseWriter, r *http.Request) {
	var req CaptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if strings.TrimSpace(req.VideoInput) == "" {
		s.writeError(w, http.StatusBadRequest, "Video URL or ID is required", "")
		return
	}

	videoID, err := captions.ExtractVideoID(req.VideoInput)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid YouTube URL or video ID", "")
		return
	}

	c := s.deps.Captions.Captions(r.Context(), videoID, req.Lang)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": CaptionsData{
			Title:       c.Title,
			Description: c.Description,
			Subtitles:   c.Subtitles,
			VideoID:     videoID,
		},
	})
}

type StoresRequest struct {
	SelectedIngredients []string         `json:"selectedIngredients"`
	UserLocation        *stores.Location `json:"userLocation"`
}

type StoresData struct {
	Stores          []stores.Store  `json:"stores"`
	Location        stores.Location `json:"location"`
	SearchRadius    string          `json:"searchRadius"`
	IngredientCount int             `json:"ingredientCount"`
}

func (s *Server) HandleStores(w http.ResponseWriter, r *http.Request) {
	var req StoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if req.UserLocation == nil || !req.UserLocation.Valid() {
		s.writeError(w, http.StatusBadRequest, "Invalid location coordinates provided", "")
		return
	}

	found := s.deps.Stores.FindNearby(r.Context(), *req.UserLocation)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": StoresData{
			Stores:          found,
			Location:        *req.UserLocation,
			SearchRadius:    stores.SearchRadiusLabel,
			IngredientCount: len(req.SelectedIngredients),
		},
	})
}

type HealthResponse struct {
	Status      string          `json:"status"`
	Timestamp   string          `json:"timestamp"`
	Environment map[string]bool `json:"environment"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: s.timestamp(),
		Environment: map[string]bool{
			"openai":       s.cfg.OpenAIKey != "",
			"google":       s.cfg.GoogleSearchEnabled(),
			"vidnavigator": s.cfg.VidNavigatorAPIKey != "",
			"places":       s.cfg.GooglePlacesAPIKey != "",
			"redis":        s.cfg.RedisURL != "",
		},
	})
}

func (s *Server) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	cleared := s.deps.Cache.Clear(r.Context())
	subject, _ := middleware.GetAdminSubject(r.Context())
	slog.Info("Recipe cache cleared", "cleared", cleared, "by", subject)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cleared": cleared,
	})
}

type WarmRequest struct {
	RecipeNames []string `json:"recipeNames"`
	Lang        string   `json:"lang"`
}

type WarmJob struct {
	JobID      string `json:"jobId"`
	RecipeName string `json:"recipeName"`
}

func (s *Server) HandleWarmRecipes(w http.ResponseWriter, r *http.Request) {
	if s.deps.Enqueuer == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Background jobs are not configured", "Set REDIS_URL to enable cache warming")
		return
	}

	var req WarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	var names []string
	for _, name := range req.RecipeNames {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		s.writeError(w, http.StatusBadRequest, "recipeNames is required", "")
		return
	}
	if len(names) > maxWarmBatch {
		s.writeError(w, http.StatusBadRequest, "Too many recipe names", "Send at most 50 names per request")
		return
	}

	jobs := make([]WarmJob, 0, len(names))
	for _, name := range names {
		jobID, err := worker.EnqueueWarm(r.Context(), s.deps.Enqueuer, worker.WarmRecipePayload{
			RecipeName: name,
			Lang:       req.Lang,
		})
		if err != nil {
			slog.Error("Failed to enqueue warm task", "recipe_name", name, "error", err)
			s.writeError(w, http.StatusInternalServerError, "Failed to enqueue task", "")
			return
		}
		jobs = append(jobs, WarmJob{JobID: jobID, RecipeName: name})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"jobs":    jobs,
	})
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) writeAppError(w http.ResponseWriter, appErr *errors.AppError) {
	s.writeError(w, appErr.StatusCode, appErr.Message, appErr.Recovery)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{
		Success:   false,
		Error:     message,
		Details:   details,
		Timestamp: s.timestamp(),
	})
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
