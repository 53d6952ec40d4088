package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"

	"github.com/Tomlord1122/todo-server/internal/service"
)

// RegisterRoutes builds the route table. Static files are served from the
// NotFound handler, so a known path hit with the wrong method still gets a 405.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.log))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(accessLog))
	if s.metrics != nil {
		r.Use(s.instrument)
	}
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/root", s.rootHandler)
	r.Get("/health", s.healthHandler)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/user/{id}", s.fetchUserHandler)
	r.Post("/user/details", s.fetchUserDetailsHandler)

	r.Get("/todos/all", s.getAllTodosHandler)
	r.Post("/todo/create", s.createTodoHandler)
	r.Put("/todo/{id}/mark/completed", s.markTodoCompletedHandler)
	r.Delete("/todo/{id}/delete", s.deleteTodoHandler)

	r.NotFound(s.static.ServeHTTP)

	return r
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello from Todo Backend!"))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, r, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, r, http.StatusOK, healthStats)
}

func (s *Server) fetchUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid user ID provided")
		return
	}
	respondWithJSON(w, r, http.StatusOK, service.FetchUser(uint32(id)))
}

func (s *Server) fetchUserDetailsHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UserDetailsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	respondWithJSON(w, r, http.StatusOK, service.FetchUser(req.UserID))
}

func (s *Server) getAllTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.ListTodos(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list todos failed")
		respondWithError(w, r, http.StatusInternalServerError, "Failed to retrieve todos")
		return
	}

	respondWithJSON(w, r, http.StatusOK, todos)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	todoResp, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create todo failed")
		respondWithError(w, r, http.StatusInternalServerError, "Failed to create todo")
		return
	}

	respondWithJSON(w, r, http.StatusCreated, todoResp)
}

func (s *Server) markTodoCompletedHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	if err := s.todoService.MarkCompleted(r.Context(), id); err != nil {
		hlog.FromRequest(r).Error().Err(err).Int32("id", id).Msg("mark todo completed failed")
		respondWithError(w, r, http.StatusInternalServerError, "Failed to update todo")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	if err := s.todoService.DeleteTodo(r.Context(), id); err != nil {
		hlog.FromRequest(r).Error().Err(err).Int32("id", id).Msg("delete todo failed")
		respondWithError(w, r, http.StatusInternalServerError, "Failed to delete todo")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func todoID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, "Invalid todo ID provided")
		return 0, false
	}
	return int32(id), true
}

// decodeJSONBody decodes the request body into dst. On failure it writes a
// 400 response and returns false. Unknown fields are ignored.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, r, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, r, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, r, http.StatusBadRequest, msg)
	case errors.Is(err, io.EOF):
		respondWithError(w, r, http.StatusBadRequest, "Request body must not be empty")
	default:
		hlog.FromRequest(r).Warn().Err(err).Msg("decode request body")
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	respondWithJSON(w, r, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("marshal JSON response")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
