package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"voiceapp/internal/conversation"
	"voiceapp/internal/logging"
	"voiceapp/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const absoluteTimeFormat = "2006-01-02 15:04:05"

// Source supplies the records pages render.
type Source interface {
	List(ctx context.Context) ([]*store.Conversation, error)
	Get(ctx context.Context, id int64) (*store.Conversation, error)
}

// Pages renders the HTML UI.
type Pages struct {
	src       Source
	logger    *slog.Logger
	now       func() time.Time
	templates map[string]*template.Template
}

// New parses the embedded templates.
func New(src Source, logger *slog.Logger) (*Pages, error) {
	p := &Pages{
		src:       src,
		logger:    logging.NewComponentLogger(logger, "web"),
		now:       time.Now,
		templates: make(map[string]*template.Template),
	}
	for _, name := range []string{"home", "upload", "dashboard", "transcript", "error"} {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

// Register mounts the pages and static assets on r.
func (p *Pages) Register(r *mux.Router) {
	static, err := fs.Sub(staticFS, "static")
	if err == nil {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}
	r.HandleFunc("/", p.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/upload", p.handleUpload).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", p.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/transcript/{id:[0-9]+}", p.handleTranscript).Methods(http.MethodGet)
}

type pageData struct {
	Title string
	// ChatWidget shows the floating assistant without record context.
	ChatWidget bool
	Year       int
	Body       any
}

type dashboardRow struct {
	ID            int64
	Uploaded      string
	Relative      string
	HasTranscript bool
	HasAnalysis   bool
}

type transcriptPage struct {
	ID            int64
	Uploaded      string
	Relative      string
	AudioSize     string
	Transcript    string
	HasTranscript bool
	Analysis      *AnalysisView
	AnalysisError string
}

func (p *Pages) handleHome(w http.ResponseWriter, _ *http.Request) {
	p.render(w, http.StatusOK, "home", pageData{Title: "Voice Intelligence App", ChatWidget: true})
}

func (p *Pages) handleUpload(w http.ResponseWriter, _ *http.Request) {
	p.render(w, http.StatusOK, "upload", pageData{Title: "Upload Audio"})
}

func (p *Pages) handleDashboard(w http.ResponseWriter, r *http.Request) {
	convs, err := p.src.List(r.Context())
	if err != nil {
		p.renderError(w, r, http.StatusInternalServerError, "Could not load conversations.", err)
		return
	}
	rows := make([]dashboardRow, 0, len(convs))
	for _, conv := range convs {
		uploaded, relative := p.times(conv.CreatedAt)
		rows = append(rows, dashboardRow{
			ID:            conv.ID,
			Uploaded:      uploaded,
			Relative:      relative,
			HasTranscript: conv.HasTranscript(),
			HasAnalysis:   conv.HasAnalysis(),
		})
	}
	p.render(w, http.StatusOK, "dashboard", pageData{Title: "Conversations Dashboard", Body: rows})
}

func (p *Pages) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		p.renderError(w, r, http.StatusNotFound, "Conversation not found.", nil)
		return
	}
	conv, err := p.src.Get(r.Context(), id)
	if err != nil {
		if _, ok := conversation.AsError(err); ok {
			p.renderError(w, r, http.StatusNotFound, "Conversation not found.", nil)
			return
		}
		p.renderError(w, r, http.StatusInternalServerError, "Could not load conversation.", err)
		return
	}

	uploaded, relative := p.times(conv.CreatedAt)
	data := transcriptPage{
		ID:            conv.ID,
		Uploaded:      uploaded,
		Relative:      relative,
		Transcript:    conv.TranscriptText,
		HasTranscript: conv.HasTranscript(),
	}
	if info, statErr := os.Stat(conv.AudioPath); statErr == nil {
		data.AudioSize = humanize.Bytes(uint64(info.Size()))
	}
	view, err := BuildAnalysisView(conv.AnalysisJSON)
	if err != nil {
		p.logger.Warn("stored analysis is not a JSON object",
			logging.Int64(logging.FieldConversationID, conv.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "analysis section shows raw text"),
		)
		data.AnalysisError = conv.AnalysisJSON
	}
	data.Analysis = view
	p.render(w, http.StatusOK, "transcript", pageData{
		Title: fmt.Sprintf("Transcript for Conversation #%d", conv.ID),
		Body:  data,
	})
}

func (p *Pages) times(t time.Time) (string, string) {
	if t.IsZero() {
		return "", ""
	}
	return t.Local().Format(absoluteTimeFormat), humanize.RelTime(t, p.now(), "ago", "from now")
}

func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(r.Context(), p.logger), "page render failed", "page_failed",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	p.render(w, status, "error", pageData{Title: "Error", Body: message})
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data pageData) {
	tmpl, ok := p.templates[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	data.Year = p.now().Year()
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		p.logger.Error("template execution failed", logging.String("page", name), logging.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
