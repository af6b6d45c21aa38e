package cli

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vizbind/pkg/cache"
	"github.com/matzehuels/vizbind/pkg/dataset"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/observability"
	"github.com/matzehuels/vizbind/pkg/pipeline"
	"github.com/matzehuels/vizbind/pkg/spec"
)

const (
	defaultAddr     = "localhost:8080"
	maxRequestBytes = 8 << 20
	shutdownTimeout = 5 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatCommands: "application/json",
}

// renderRequest is the body of POST /render and POST /layout. Durations
// use time.ParseDuration syntax.
type renderRequest struct {
	Spec       string          `json:"spec"`
	SpecFormat string          `json:"spec_format,omitempty"`
	Dataset    json.RawMessage `json:"dataset"`
	Width      float64         `json:"width,omitempty"`
	Height     float64         `json:"height,omitempty"`
	Duration   string          `json:"duration,omitempty"`
	Interval   string          `json:"interval,omitempty"`
	Elapsed    string          `json:"elapsed,omitempty"`
	Background string          `json:"background,omitempty"`
	Title      string          `json:"title,omitempty"`
	Refresh    bool            `json:"refresh,omitempty"`
}

func (r renderRequest) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Spec:          []byte(r.Spec),
		SpecFormat:    spec.Format(r.SpecFormat),
		Dataset:       r.Dataset,
		DatasetFormat: dataset.FormatJSON,
		Width:         r.Width,
		Height:        r.Height,
		Background:    r.Background,
		Title:         r.Title,
		Refresh:       r.Refresh,
	}
	var err error
	if opts.Interval, err = parseDuration("interval", r.Interval); err != nil {
		return opts, err
	}
	if opts.Elapsed, err = parseDuration("elapsed", r.Elapsed); err != nil {
		return opts, err
	}
	if r.Duration != "" {
		d, err := parseDuration("duration", r.Duration)
		if err != nil {
			return opts, err
		}
		opts.Duration = &d
	}
	return opts, nil
}

func parseDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s", name)
	}
	return d, nil
}

// server exposes the pipeline over HTTP.
type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/render", s.handleRender)
	r.Post("/render/{format}", s.handleRender)
	r.Post("/layout", s.handleLayout)
	r.Post("/layout/{component}", s.handleLayout)
	return r
}

// observe logs each request and reports it to the HTTP hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), dur)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", dur)
	})
}

func (s *server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var req renderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return pipeline.Options{}, false
	}
	opts, err := req.options()
	if err != nil {
		s.fail(w, r, err)
		return pipeline.Options{}, false
	}
	opts.Logger = s.logger
	return opts, true
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", `"`+res.InputHash[:16]+`"`)
	if res.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(res.Artifacts[format])
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	data, err := s.runner.Layout(r.Context(), opts, chi.URLParam(r, "component"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// fail writes err as a JSON error body with a status derived from its code.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func statusOf(err error) int {
	switch {
	case errors.IsConfiguration(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeInvalidInput), errors.Is(err, errors.ErrCodeInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve answers POST /render[/{format}] and POST /layout[/{component}]
with a JSON body {"spec": "...", "dataset": [...]}.

Artifacts are cached in Redis when --redis is set, otherwise in the local
cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			var store cache.Cache
			var err error
			switch {
			case redisURL != "":
				store, err = cache.NewRedisCache(ctx, redisURL, appName+":")
			default:
				store, err = newCache(noCache)
			}
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, nil, logger)
			defer runner.Close()

			return serve(ctx, addr, &server{runner: runner, logger: logger})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for the artifact cache (redis://host:6379/0)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

// serve runs the HTTP server until ctx ends.
func serve(ctx context.Context, addr string, s *server) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	printSuccess("Listening on http://%s", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
