// Package server exposes stored games over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/denismitr/minsweeper"
	"github.com/denismitr/minsweeper/hint"
	"github.com/denismitr/minsweeper/internal/solvers"
	"github.com/denismitr/minsweeper/store"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/unrolled/secure"
)

var ErrBadRequest = errors.New("bad request")

type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Development relaxes the security headers.
	Development bool
	Logger      *zerolog.Logger
}

type Server struct {
	games   *Games
	cfg     Config
	handler http.Handler
}

func New(games *Games, cfg Config) *Server {
	if cfg.Logger == nil {
		l := zerolog.Nop()
		cfg.Logger = &l
	}

	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}

	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 15 * time.Second
	}

	s := &Server{games: games, cfg: cfg}

	r := mux.NewRouter()
	r.HandleFunc("/games", s.createGame).Methods(http.MethodPost)
	r.HandleFunc("/games", s.listGames).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}", s.getGame).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}", s.deleteGame).Methods(http.MethodDelete)
	r.HandleFunc("/games/{id}/left", s.click(minsweeper.Left)).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/right", s.click(minsweeper.Right)).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/flag", s.flag).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/hint", s.hint).Methods(http.MethodGet)
	r.HandleFunc("/solvers", s.listSolvers).Methods(http.MethodGet)

	sm := secure.New(secure.Options{
		IsDevelopment:      cfg.Development,
		BrowserXssFilter:   true,
		ContentTypeNosniff: true,
		FrameDeny:          true,
	})

	s.handler = sm.Handler(logMiddleware(cfg.Logger)(r))
	return s
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(rw, r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Handler:      s,
		Addr:         s.cfg.Address,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info().Msgf("Listening on %s", s.cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "could not shut the server down")
	}

	return nil
}

type cellRequest struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Flagged bool `json:"flagged"`
}

func (s *Server) createGame(rw http.ResponseWriter, r *http.Request) {
	var ng NewGame
	if err := decode(r, &ng); err != nil {
		writeError(rw, r, err)
		return
	}

	v, err := s.games.Create(ng)
	if err != nil {
		writeError(rw, r, err)
		return
	}

	writeJSON(rw, r, http.StatusCreated, v)
}

func (s *Server) listGames(rw http.ResponseWriter, r *http.Request) {
	games, err := s.games.List(r.URL.Query().Get("status"))
	if err != nil {
		writeError(rw, r, err)
		return
	}

	if games == nil {
		games = []store.Summary{}
	}

	writeJSON(rw, r, http.StatusOK, games)
}

func (s *Server) getGame(rw http.ResponseWriter, r *http.Request) {
	v, err := s.games.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(rw, r, err)
		return
	}

	writeJSON(rw, r, http.StatusOK, v)
}

func (s *Server) deleteGame(rw http.ResponseWriter, r *http.Request) {
	if err := s.games.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(rw, r, err)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}

func (s *Server) click(action minsweeper.Action) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req cellRequest
		if err := decode(r, &req); err != nil {
			writeError(rw, r, err)
			return
		}

		v, err := s.games.Click(r.Context(), mux.Vars(r)["id"], minsweeper.Pt(req.X, req.Y), action)
		if err != nil {
			writeError(rw, r, err)
			return
		}

		writeJSON(rw, r, http.StatusOK, v)
	}
}

func (s *Server) flag(rw http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if err := decode(r, &req); err != nil {
		writeError(rw, r, err)
		return
	}

	v, err := s.games.Flag(mux.Vars(r)["id"], minsweeper.Pt(req.X, req.Y), req.Flagged)
	if err != nil {
		writeError(rw, r, err)
		return
	}

	writeJSON(rw, r, http.StatusOK, v)
}

func (s *Server) hint(rw http.ResponseWriter, r *http.Request) {
	h, err := s.games.Hint(mux.Vars(r)["id"], r.URL.Query().Get("solver"))
	if err != nil {
		writeError(rw, r, err)
		return
	}

	if h == nil {
		rw.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(rw, r, http.StatusOK, h)
}

func (s *Server) listSolvers(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, r, http.StatusOK, solvers.List())
}

func decode(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return errors.Wrap(ErrBadRequest, err.Error())
	}
	return nil
}

func writeJSON(rw http.ResponseWriter, r *http.Request, status int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		Log(r.Context()).Error().Err(err).Msg("could not write response")
	}
}

func writeError(rw http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		Log(r.Context()).Error().Err(err).Msg("request failed")
	}

	writeJSON(rw, r, status, map[string]string{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrOutOfBounds),
		errors.Is(err, solvers.ErrUnknownSolver),
		errors.Is(err, minsweeper.ErrUnknownConventionalSize),
		errors.Is(err, minsweeper.ErrInvalidSize),
		errors.Is(err, minsweeper.ErrTooManyMines),
		errors.Is(err, minsweeper.ErrTooFewMines):
		return http.StatusBadRequest
	case errors.Is(err, hint.ErrNotPlaying):
		return http.StatusConflict
	case errors.Is(err, minsweeper.ErrGenerationExhausted),
		errors.Is(err, minsweeper.ErrGenerationInterrupted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
