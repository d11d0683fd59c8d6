package httpapi

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server serves a downloads directory the way the deployed site does, so the
// checker has a real origin to run against.
type Server struct {
	Logger         *zap.Logger
	Downloads      http.FileSystem
	AllowedOrigins []string
}

func NewServer(l *zap.Logger, downloadsDir string, allowedOrigins []string) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Downloads: http.Dir(downloadsDir), AllowedOrigins: allowedOrigins}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(s.corsHandler())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/downloads/*", s.handleDownload)
	r.Head("/downloads/*", s.handleDownload)

	return r
}

func (s *Server) corsHandler() func(http.Handler) http.Handler {
	if len(s.AllowedOrigins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		ExposedHeaders: []string{"Content-Length", "Last-Modified"},
		MaxAge:         300,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + chi.URLParam(r, "*"))

	f, err := s.Downloads.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.Logger.Warn("download_open_error", zap.String("name", name), zap.Error(err))
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		// no directory listings
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(name)+`"`)
	http.ServeContent(w, r, name, st.ModTime(), f)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
		)
	})
}
