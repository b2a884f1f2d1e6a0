package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/risor-io/tic"
	"github.com/risor-io/tic/config"
	"github.com/risor-io/tic/outline"
)

const (
	maxServeFrames = 600
	maxSourceBytes = 1 << 20
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cartridge tools over HTTP",
	Long: `Serve the cartridge tools over HTTP:

  GET  /lang             editor language descriptor
  GET  /doc[/TOPIC]      API reference; ?category=, ?all=true, ?q=JMESPath
  POST /outline          top-level functions of the posted source
  POST /run              run the posted source headless; ?frames=, ?scanlines=,
                         ?format=png returns the last frame`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           newServer(cfg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
			errc <- srv.ListenAndServe()
		}()
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	},
}

func init() {
	serveCmd.Flags().String("addr", "localhost:8480", "listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func newServer(cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Get("/lang", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, tic.Lang)
	})
	r.Get("/doc", serveDocs)
	r.Get("/doc/{topic}", serveDocs)
	r.Post("/outline", func(w http.ResponseWriter, r *http.Request) {
		source, ok := readBody(w, r)
		if !ok {
			return
		}
		items := slices.Collect(tic.Lang.Outline(source))
		if items == nil {
			items = []outline.Item{}
		}
		respond(w, http.StatusOK, items)
	})
	r.Post("/run", func(w http.ResponseWriter, r *http.Request) {
		serveRun(w, r, cfg)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSourceBytes))
	if err != nil {
		respond(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return "", false
	}
	return string(data), true
}

func serveDocs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts []tic.DocsOption
	switch {
	case q.Get("all") == "true":
		opts = append(opts, tic.DocsAll())
	case q.Get("category") != "":
		opts = append(opts, tic.DocsCategory(q.Get("category")))
	case chi.URLParam(r, "topic") != "":
		opts = append(opts, tic.DocsTopic(chi.URLParam(r, "topic")))
	}
	result, err := queryDocs(tic.Docs(opts...), q.Get("q"))
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	respond(w, http.StatusOK, result)
}

type runResponse struct {
	Frames int      `json:"frames"`
	State  string   `json:"state"`
	Exited bool     `json:"exited"`
	Errors []string `json:"errors"`
	Traces []string `json:"traces"`
}

func serveRun(w http.ResponseWriter, r *http.Request, cfg config.Config) {
	q := r.URL.Query()
	frames := 1
	if v := q.Get("frames"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxServeFrames {
			respond(w, http.StatusBadRequest, errorResponse{Error: "frames must be between 1 and " + strconv.Itoa(maxServeFrames)})
			return
		}
		frames = n
	}
	source, ok := readBody(w, r)
	if !ok {
		return
	}
	cfg.Console.Scanlines = q.Get("scanlines") == "true"
	cfg.Console.Cart = q.Get("cart")
	if cfg.Console.Cart == "" {
		// Requests without a cartridge key do not share persistent memory.
		cfg.Store = config.Store{Backend: "memory"}
	}

	sess, err := newSession(r.Context(), cfg, "serve", source)
	if sess == nil {
		respond(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	defer sess.close(context.Background())
	if err == nil {
		err = sess.run(r.Context(), frames)
	}
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		respond(w, http.StatusGatewayTimeout, errorResponse{Error: err.Error()})
		return
	}

	if q.Get("format") == "png" {
		var buf bytes.Buffer
		if err := imgio.PNGEncoder()(&buf, sess.console.Image()); err != nil {
			respond(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
		return
	}
	resp := runResponse{
		Frames: sess.console.Frame(),
		State:  sess.runtime.State().String(),
		Exited: sess.console.ExitRequested(),
		Errors: sess.console.Errors(),
		Traces: []string{},
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	for _, line := range sess.console.Traces() {
		resp.Traces = append(resp.Traces, line.Message)
	}
	respond(w, http.StatusOK, resp)
}
