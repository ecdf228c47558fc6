package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the research API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		go drainProgress(env.Progress)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(env),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func buildRouter(env *pipelineEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/research", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Company string `json:"company"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.Company == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company is required"})
			return
		}

		// Research runs are long; accept and run in the background. The
		// request context dies with the response, so detach from it.
		runCtx := context.WithoutCancel(req.Context())
		go func() {
			report, err := env.Pipeline.Run(runCtx, body.Company)
			if err != nil {
				zap.L().Error("research failed",
					zap.String("company", body.Company), zap.Error(err))
				return
			}
			id, err := env.Store.Save(runCtx, report)
			if err != nil {
				zap.L().Error("report save failed",
					zap.String("company", body.Company), zap.Error(err))
				return
			}
			zap.L().Info("research complete",
				zap.String("company", body.Company), zap.String("id", id))
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "accepted",
			"company": body.Company,
		})
	})

	r.Get("/api/reports", func(w http.ResponseWriter, req *http.Request) {
		summaries, err := env.Store.List(req.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, summaries)
	})

	r.Get("/api/reports/{id}", func(w http.ResponseWriter, req *http.Request) {
		report, err := env.Store.Load(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	r.Delete("/api/reports/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := env.Store.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
