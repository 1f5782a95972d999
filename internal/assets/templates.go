// Package assets holds the embedded templates and lets a file on disk replace them.
package assets

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

const reportTemplateName = "report.md.go.tmpl"

//go:embed templates/report.md.go.tmpl
var fallbackReportTemplate string

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"|", `\|`,
	"#", `\#`,
)

var funcMap = template.FuncMap{
	"join": strings.Join,
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"escape": markdownEscaper.Replace,
}

// ReportTemplate is the data rendered by the report template.
type ReportTemplate struct {
	GeneratedAt time.Time
	Total       int
	Stages      []ReportStage
}

type ReportStage struct {
	Stage int
	Label string
	Count int
	// Words are ordered least recently revised first.
	Words []ReportWord
}

type ReportWord struct {
	TargetWord      string
	Translation     string
	PartOfSpeech    string
	ExampleSentence string
	CreatedAt       time.Time
	LastTouchedAt   time.Time
}

// WriteReport renders data with the template at templatePath, or the embedded one when
// templatePath is empty or cannot be parsed.
func WriteReport(output io.Writer, templatePath string, data ReportTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, reportTemplateName, fallbackReportTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

func parseTemplateWithFallback(templatePath, fallbackName, fallbackTemplate string) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a template, using the embedded one",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
