// internal/site/site.go
//
// The composer owns the generated site: it turns loaded requirements, the
// validation report and the rendered diagrams into a fixed set of static
// HTML documents. Output is a pure function of the inputs; identical
// inputs produce byte-identical pages so the site diffs cleanly in
// version control.

package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"docsmith/internal/diagram"
	"docsmith/internal/requirement"
	"docsmith/internal/trace"
)

//go:embed templates/*.tmpl templates/style.css
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Document is one generated page, ready to write.
type Document struct {
	Path  string
	Title string
	Body  []byte
}

// Input bundles everything the composer consumes.
type Input struct {
	HighLevel requirement.Collection
	Software  requirement.Collection
	Report    trace.Report
	Diagrams  []diagram.Rendered
}

// Page paths are fixed; cross links between pages rely on them.
const (
	IndexPage     = "index.html"
	HighLevelPage = "high_level_requirements.html"
	SoftwarePage  = "software_requirements.html"
	StyleSheet    = "style.css"
)

// DiagramPage returns the page path for a diagram kind.
func DiagramPage(kind diagram.Kind) string {
	return string(kind) + "_diagram.html"
}

// Compose produces the full document set in a fixed order: index, the two
// tier pages, one page per diagram kind, and the stylesheet.
func Compose(in Input) ([]Document, error) {
	docs := make([]Document, 0, 7)

	index, err := composeIndex(in)
	if err != nil {
		return nil, err
	}
	docs = append(docs, index)

	high, err := composeTier(in.HighLevel, in.Report, "High-level Requirements", HighLevelPage, false)
	if err != nil {
		return nil, err
	}
	docs = append(docs, high)

	soft, err := composeTier(in.Software, in.Report, "Software Requirements", SoftwarePage, true)
	if err != nil {
		return nil, err
	}
	docs = append(docs, soft)

	for _, kind := range diagram.Kinds() {
		rendered, ok := findRendered(in.Diagrams, kind)
		if !ok {
			return nil, fmt.Errorf("site: no render result for %s diagram", kind)
		}
		page, err := composeDiagram(rendered)
		if err != nil {
			return nil, err
		}
		docs = append(docs, page)
	}

	style, err := templateFS.ReadFile("templates/" + StyleSheet)
	if err != nil {
		return nil, fmt.Errorf("site: embedded stylesheet: %w", err)
	}
	docs = append(docs, Document{Path: StyleSheet, Title: "Stylesheet", Body: style})

	return docs, nil
}

// Write replaces the output directory with the document set. The
// directory is fully regenerated on every run, never patched.
func Write(dir string, docs []Document) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("site: output dir is required")
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("site: clear output dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("site: create output dir: %w", err)
	}
	for _, doc := range docs {
		path := filepath.Join(dir, doc.Path)
		if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
			return fmt.Errorf("site: write %s: %w", doc.Path, err)
		}
	}
	return nil
}

type findingView struct {
	Severity string
	Subject  string
	Message  string
}

type diagramSummary struct {
	Title    string
	Href     string
	Fallback bool
}

type indexData struct {
	Title          string
	Valid          bool
	ErrorCount     int
	WarningCount   int
	HighLevelCount int
	SoftwareCount  int
	HighLevelHref  string
	SoftwareHref   string
	Findings       []findingView
	Diagrams       []diagramSummary
}

func composeIndex(in Input) (Document, error) {
	data := indexData{
		Title:          "Project Documentation",
		Valid:          in.Report.Valid(),
		ErrorCount:     in.Report.ErrorCount(),
		WarningCount:   in.Report.WarningCount(),
		HighLevelCount: in.HighLevel.Len(),
		SoftwareCount:  in.Software.Len(),
		HighLevelHref:  HighLevelPage,
		SoftwareHref:   SoftwarePage,
	}
	for _, f := range in.Report.Findings {
		data.Findings = append(data.Findings, findingView{
			Severity: string(f.Severity),
			Subject:  f.Subject,
			Message:  f.Message,
		})
	}
	for _, kind := range diagram.Kinds() {
		rendered, _ := findRendered(in.Diagrams, kind)
		data.Diagrams = append(data.Diagrams, diagramSummary{
			Title:    kind.Title(),
			Href:     DiagramPage(kind),
			Fallback: rendered.Mode == diagram.ModeFallback,
		})
	}
	return execute("index", IndexPage, data.Title, data)
}

type requirementView struct {
	ID          string
	Name        string
	Status      string
	StatusClass string
	Description string
	HasRefines  bool
	Refines     string
	RefinesOK   bool
	RefinesHref string
}

type tierData struct {
	Title        string
	ShowRefines  bool
	Requirements []requirementView
}

func composeTier(col requirement.Collection, report trace.Report, title, path string, showRefines bool) (Document, error) {
	data := tierData{Title: title, ShowRefines: showRefines}
	for _, req := range col.Items {
		view := requirementView{
			ID:          req.ID,
			Name:        req.Name,
			Status:      string(req.Status),
			StatusClass: statusClass(req.Status),
			Description: strings.TrimSpace(req.Description),
			HasRefines:  req.Refines != "",
			Refines:     req.Refines,
		}
		if showRefines && view.HasRefines && !report.BrokenRefines(req.ID) {
			view.RefinesOK = true
			view.RefinesHref = HighLevelPage + "#" + req.Refines
		}
		data.Requirements = append(data.Requirements, view)
	}
	return execute("tier", path, title, data)
}

type diagramData struct {
	Title    string
	Remote   bool
	URL      string
	Text     string
	Reason   string
	FileName string
}

func composeDiagram(rendered diagram.Rendered) (Document, error) {
	data := diagramData{
		Title:    rendered.Kind.Title(),
		Remote:   rendered.Mode == diagram.ModeRemote,
		URL:      rendered.URL,
		Text:     rendered.Text,
		Reason:   rendered.Reason,
		FileName: rendered.Kind.FileName(),
	}
	return execute("diagram", DiagramPage(rendered.Kind), data.Title, data)
}

func execute(name, path, title string, data any) (Document, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return Document{}, fmt.Errorf("site: render %s: %w", path, err)
	}
	return Document{Path: path, Title: title, Body: buf.Bytes()}, nil
}

func findRendered(diagrams []diagram.Rendered, kind diagram.Kind) (diagram.Rendered, bool) {
	for _, d := range diagrams {
		if d.Kind == kind {
			return d, true
		}
	}
	return diagram.Rendered{}, false
}

// statusClass turns a status value into a CSS class. Unknown values get a
// dedicated class so the page makes them stand out.
func statusClass(status requirement.Status) string {
	if !requirement.KnownStatus(status) {
		return "status-unknown"
	}
	return "status-" + strings.ReplaceAll(strings.ToLower(string(status)), " ", "-")
}
