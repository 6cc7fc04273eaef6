package ui

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ArtifactsApp is a separate, minimal file server over the artifact root, so
// the executor and operators can fetch notebooks and manifests without going
// through the API process.
type ArtifactsApp struct {
	router *chi.Mux
	root   string
}

// NewArtifactsApp creates the artifacts file server
func NewArtifactsApp(root string) *ArtifactsApp {
	a := &ArtifactsApp{
		router: chi.NewRouter(),
		root:   root,
	}

	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Timeout(30 * time.Second))

	a.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	a.router.Handle("/artifacts/*", http.StripPrefix("/artifacts/", http.FileServer(http.Dir(root))))

	return a
}

// Run starts the artifacts server
func (a *ArtifactsApp) Run(addr string) error {
	log.Printf("[ArtifactsApp] Serving %s on %s", a.root, addr)
	return http.ListenAndServe(addr, a.router)
}
