// Package server exposes a whiteboard session over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/notify"
	"github.com/example/whiteboard/internal/session"
)

// Server routes requests onto a session loop.
type Server struct {
	loop     *session.Loop
	upgrader websocket.Upgrader

	conns uint64 // websocket connection ids, atomic
	owner uint64 // connection holding the gesture, loop only
}

// New creates a server for loop. The loop must be running.
func New(loop *session.Loop) *Server {
	return &Server{
		loop: loop,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/undo", s.handleUndo)
		r.Post("/clear", s.handleClear)
		r.Post("/resize", s.handleResize)
		r.Put("/style", s.handleStyle)
		r.Get("/export", s.handleExport)
	})
	r.Get("/ws", s.handleWebsocket)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("health: %v", err)
		}
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf("serving whiteboard on http://%s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Result is returned by the action endpoints.
type Result struct {
	Notice *notify.Notice `json:"notice,omitempty"`
	State  session.State  `json:"state"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message, RequestID: middleware.GetReqID(r.Context())})
}

// do runs fn on the session loop, answering 503 when the loop is gone.
func (s *Server) do(w http.ResponseWriter, r *http.Request, fn func(*session.Session)) bool {
	if err := s.loop.Do(r.Context(), fn); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, err.Error())
		return false
	}
	return true
}

func noticePtr(n notify.Notice) *notify.Notice {
	if n.Event == "" {
		return nil
	}
	return &n
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var st session.State
	if s.do(w, r, func(sess *session.Session) { st = sess.State() }) {
		respondJSON(w, http.StatusOK, st)
	}
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	var res Result
	if s.do(w, r, func(sess *session.Session) {
		n, _ := sess.Undo()
		res = Result{Notice: noticePtr(n), State: sess.State()}
	}) {
		respondJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var res Result
	if s.do(w, r, func(sess *session.Session) {
		res = Result{Notice: noticePtr(sess.Clear()), State: sess.State()}
	}) {
		respondJSON(w, http.StatusOK, res)
	}
}

// ResizeRequest is the body of POST /api/resize.
type ResizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Width < 0 || req.Height < 0 {
		respondError(w, r, http.StatusBadRequest, "width and height must not be negative")
		return
	}
	var res Result
	if s.do(w, r, func(sess *session.Session) {
		sess.Resize(req.Width, req.Height)
		res = Result{State: sess.State()}
	}) {
		respondJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	var req session.Style
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	var (
		res      Result
		styleErr error
	)
	if !s.do(w, r, func(sess *session.Session) {
		styleErr = sess.SetStyle(req)
		res = Result{State: sess.State()}
	}) {
		return
	}
	if styleErr != nil {
		respondError(w, r, http.StatusBadRequest, styleErr.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var (
		name    string
		enc     export.Encoder
		data    []byte
		failure error
	)
	if !s.do(w, r, func(sess *session.Session) {
		name, enc, data, failure = sess.Export(format)
	}) {
		return
	}
	switch {
	case errors.Is(failure, board.ErrNotReady), errors.Is(failure, board.ErrEmptyFrame):
		respondError(w, r, http.StatusConflict, failure.Error())
		return
	case failure != nil:
		log.Printf("export: %v", failure)
		respondError(w, r, http.StatusInternalServerError, "Could not save the whiteboard")
		return
	}
	w.Header().Set("Content-Type", enc.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("export write: %v", err)
	}
}
