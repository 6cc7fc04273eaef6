package ui

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"replab/app"
	"replab/domain/core"
	"replab/domain/notebook"
	"replab/domain/plan"
	"replab/internal/errors"
	"replab/ports"
)

// Server is the REST surface over the materialization core. It is thin glue:
// row lookups, one service call, response shaping. Everything with actual
// design weight lives behind the MaterializeService.
type Server struct {
	router  *gin.Engine
	plans   ports.PlanRepository
	papers  ports.PaperRepository
	service *app.MaterializeService
	store   ports.ArtifactStore
	assets  ports.AssetRepository
}

// NewServer creates the REST server and registers routes
func NewServer(plans ports.PlanRepository, papers ports.PaperRepository, assets ports.AssetRepository, store ports.ArtifactStore, service *app.MaterializeService) *Server {
	s := &Server{
		router:  gin.Default(),
		plans:   plans,
		papers:  papers,
		service: service,
		store:   store,
		assets:  assets,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.POST("/plans/:id/materialize", s.handleMaterialize)
		api.GET("/plans/:id/artifacts", s.handleArtifacts)
		api.GET("/plans/:id/preview", s.handlePreview)
	}
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	log.Printf("[Server] Listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleMaterialize generates, validates and persists the notebook and
// requirements manifest for a plan. An invalid notebook comes back as 422
// with the validator's error list; the artifact is not persisted.
func (s *Server) handleMaterialize(c *gin.Context) {
	planID, err := core.ParsePlanID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	planRow, err := s.plans.GetByID(c.Request.Context(), planID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	doc, err := plan.Parse(planRow.PlanJSON)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": errors.CodePlanInvalid})
		return
	}

	paper, err := s.papers.GetByID(c.Request.Context(), planRow.PaperID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	artifacts, err := s.service.Materialize(c.Request.Context(), doc, planID, paper)
	if err != nil {
		if errors.GetCode(err) == errors.CodeValidationFailed && artifacts != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "generated notebook failed validation",
				"code":       errors.CodeValidationFailed,
				"validation": artifacts.Validation,
			})
			return
		}
		s.renderError(c, err)
		return
	}

	if err := s.plans.UpdateEnvHash(c.Request.Context(), planID, artifacts.EnvHash); err != nil {
		log.Printf("[Server] Failed to record env hash for plan %s: %v", planID, err)
	}
	if err := s.plans.UpdateStatus(c.Request.Context(), planID, "materialized"); err != nil {
		log.Printf("[Server] Failed to update status for plan %s: %v", planID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"plan_id":           planID,
		"notebook_path":     artifacts.NotebookPath,
		"requirements_path": artifacts.RequirementsPath,
		"env_hash":          artifacts.EnvHash,
		"validation":        artifacts.Validation,
	})
}

func (s *Server) handleArtifacts(c *gin.Context) {
	planID, err := core.ParsePlanID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := s.assets.ListByPlan(c.Request.Context(), planID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_id": planID, "assets": rows})
}

// handlePreview renders the stored notebook's markdown cells to HTML and
// inlines code cells, for a quick look without a Jupyter frontend
func (s *Server) handlePreview(c *gin.Context) {
	planID, err := core.ParsePlanID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := s.store.GetNotebook(c.Request.Context(), planID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	nb, err := notebook.Parse(raw)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", renderPreview(nb))
}

func renderPreview(nb *notebook.Notebook) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><body>\n")
	for _, cell := range nb.Cells {
		if cell.Type == notebook.CellMarkdown {
			p := parser.NewWithExtensions(parser.CommonExtensions)
			renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
			buf.Write(markdown.ToHTML([]byte(cell.Source), p, renderer))
		} else {
			buf.WriteString("<pre><code>")
			buf.WriteString(htmlEscape(cell.Source))
			buf.WriteString("</code></pre>\n")
		}
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes()
}

var previewEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func htmlEscape(s string) string {
	return previewEscaper.Replace(s)
}

func (s *Server) renderError(c *gin.Context, err error) {
	if core.IsNotFoundError(err) || errors.GetCode(err) == errors.CodeNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if errors.GetCode(err) == errors.CodeUploadMissing {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": errors.CodeUploadMissing})
		return
	}
	log.Printf("[Server] Internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
