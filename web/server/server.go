package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/df07/go-raycast/pkg/config"
	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/loaders"
	"github.com/df07/go-raycast/pkg/renderer"
)

const (
	maxBodyBytes = 1 << 20
	maxRays      = 100000
)

// Server handles web requests for the raycast API
type Server struct {
	config    *config.Config
	log       zerolog.Logger
	router    *mux.Router
	requestID atomic.Uint64
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, log zerolog.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{config: cfg, log: log}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/raycast", s.handleRaycast).Methods("POST")
	api.HandleFunc("/matrix", s.handleMatrix).Methods("POST")
	api.HandleFunc("/scenes", s.handleScenes).Methods("GET")
	api.HandleFunc("/scenes/{id}", s.handleScene).Methods("GET")
	r.Use(s.logRequests)
	s.router = r

	return s
}

// RaycastResponse is returned by POST /api/raycast
type RaycastResponse struct {
	Results     []RayHit       `json:"results"`
	Stats       renderer.Stats `json:"stats"`
	Diagnostics []string       `json:"diagnostics"`
}

// RayHit is the nearest hit for one ray. Point and Normal are omitted on a miss.
type RayHit struct {
	Hit      bool        `json:"hit"`
	Point    *[3]float64 `json:"point,omitempty"`
	Normal   *[3]float64 `json:"normal,omitempty"`
	Distance float64     `json:"distance"`
	Shape    int         `json:"shape"` // -1 on a miss
}

// MatrixResponse is returned by POST /api/matrix
type MatrixResponse struct {
	Matrix      [4][4]float64 `json:"matrix"`
	Determinant float64       `json:"determinant"`
	Inverse     [4][4]float64 `json:"inverse"`
	Singular    bool          `json:"singular"`
	Diagnostics []string      `json:"diagnostics"`
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	s.log.Info().Msgf("Starting web server on http://localhost%s", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleRaycast casts the request's rays against its spheres
func (s *Server) handleRaycast(w http.ResponseWriter, r *http.Request) {
	var req loaders.SceneFile
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Rays) > maxRays {
		http.Error(w, fmt.Sprintf("Too many rays: maximum is %d", maxRays), http.StatusBadRequest)
		return
	}

	logger := s.newRequestLogger()
	sc, err := loaders.BuildScene(req, logger)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid scene: %v", err), http.StatusBadRequest)
		return
	}

	br := renderer.NewBatchRaycaster(sc, renderer.BatchConfig{
		NumWorkers: s.config.Batch.Workers,
		QueueSize:  s.config.Batch.QueueSize,
	}, logger)
	results, err := br.Run(r.Context(), sc.Rays)
	if err != nil {
		// Client went away
		s.log.Warn().Err(err).Msg("raycast cancelled")
		return
	}

	response := RaycastResponse{
		Results:     make([]RayHit, len(results)),
		Stats:       renderer.ComputeStats(results),
		Diagnostics: logger.Messages(),
	}
	for i, result := range results {
		response.Results[i] = s.toRayHit(result)
	}
	s.roundStats(&response.Stats)

	s.writeJSON(w, response)
}

// handleMatrix builds a TRS matrix and reports its determinant and inverse
func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	var req loaders.TransformSpec
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	logger := s.newRequestLogger()
	m, err := req.Matrix()
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid transform: %v", err), http.StatusBadRequest)
		return
	}

	determinant := m.Determinant()
	inverse, err := m.Inverse()
	singular := errors.Is(err, core.ErrSingularMatrix)
	if singular {
		logger.Printf("matrix is singular, returning identity as inverse\n")
	}
	if math.IsInf(determinant, 0) || math.IsNaN(determinant) || !inverse.IsFinite() {
		http.Error(w, "Invalid transform: determinant or inverse is out of range", http.StatusBadRequest)
		return
	}

	s.writeJSON(w, MatrixResponse{
		Matrix:      s.roundRows(m.Rows()),
		Determinant: s.round(determinant),
		Inverse:     s.roundRows(inverse.Rows()),
		Singular:    singular,
		Diagnostics: logger.Messages(),
	})
}

// handleScenes lists the scene files in the configured directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := loaders.ListScenes(s.config.Scenes.Dir, s.newRequestLogger())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list scenes: %v", err), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]interface{}{"scenes": scenes})
}

// handleScene returns one scene file as JSON so it can be edited and posted
// back to /api/raycast
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	scenes, err := loaders.ListScenes(s.config.Scenes.Dir, s.newRequestLogger())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list scenes: %v", err), http.StatusInternalServerError)
		return
	}
	for _, info := range scenes {
		if info.ID != id {
			continue
		}
		spec, err := loaders.ReadSceneFile(info.FilePath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to read scene: %v", err), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, spec)
		return
	}
	http.Error(w, "Scene not found", http.StatusNotFound)
}

func (s *Server) newRequestLogger() *RequestLogger {
	id := s.requestID.Add(1)
	return NewRequestLogger(fmt.Sprintf("req-%d", id), s.log)
}

func (s *Server) toRayHit(result renderer.RayResult) RayHit {
	if !result.OK {
		return RayHit{Shape: -1}
	}
	point := s.roundVec3(result.Hit.Point)
	normal := s.roundVec3(result.Hit.Normal)
	return RayHit{
		Hit:      true,
		Point:    &point,
		Normal:   &normal,
		Distance: s.round(result.Hit.Distance),
		Shape:    result.Hit.ShapeIndex,
	}
}

// round limits v to the configured number of decimal places
func (s *Server) round(v float64) float64 {
	scale := math.Pow(10, float64(s.config.Output.Precision))
	rounded := math.Round(v*scale) / scale
	if math.IsInf(rounded, 0) || math.IsNaN(rounded) {
		return v
	}
	return rounded
}

func (s *Server) roundVec3(v core.Vec3) [3]float64 {
	return [3]float64{s.round(v.X), s.round(v.Y), s.round(v.Z)}
}

func (s *Server) roundRows(rows [4][4]float64) [4][4]float64 {
	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = s.round(rows[i][j])
		}
	}
	return rows
}

func (s *Server) roundStats(stats *renderer.Stats) {
	stats.HitRatio = s.round(stats.HitRatio)
	stats.MinDistance = s.round(stats.MinDistance)
	stats.MaxDistance = s.round(stats.MaxDistance)
	stats.MeanDistance = s.round(stats.MeanDistance)
	stats.StdDevDistance = s.round(stats.StdDevDistance)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// writeJSON encodes v before writing any header so an encoding failure can
// still be reported as a 500
func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
