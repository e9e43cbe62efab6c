package handler

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"vinfast/dashboard/internal/dashboard"

	"github.com/rs/zerolog"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

type DashboardHandler struct {
	gateway dashboard.Gateway
	opts    dashboard.Options
	log     zerolog.Logger
}

func NewDashboardHandler(gw dashboard.Gateway, opts dashboard.Options) *DashboardHandler {
	return &DashboardHandler{gateway: gw, opts: opts, log: opts.Logger}
}

// load runs one render pass into a fresh page.
func (h *DashboardHandler) load(ctx context.Context) dashboard.Snapshot {
	page := dashboard.NewPage()
	dashboard.NewRenderer(h.gateway, page, page, h.opts).Load(ctx)
	return page.Snapshot()
}

func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	snap := h.load(r.Context())

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, snap); err != nil {
		h.log.Error().Err(err).Msg("failed to render dashboard")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *DashboardHandler) JSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.load(r.Context()))
}
