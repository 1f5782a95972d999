// Package report renders the revision progress of every stage to markdown and PDF.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"

	"github.com/at-ishikawa/lexirev/internal/assets"
	"github.com/at-ishikawa/lexirev/internal/config"
	"github.com/at-ishikawa/lexirev/internal/pdf"
	"github.com/at-ishikawa/lexirev/internal/word"
)

// Generator builds progress reports from the stored words.
type Generator struct {
	repository      word.WordRepository
	templatePath    string
	outputDirectory string
	clock           func() time.Time
	convert         func(markdownPath string) (string, error)
}

func NewGenerator(repository word.WordRepository, cfg config.ReportsConfig) *Generator {
	return &Generator{
		repository:      repository,
		templatePath:    cfg.Template,
		outputDirectory: cfg.OutputDirectory,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		convert: pdf.ConvertMarkdownToPDF,
	}
}

// Build collects the counts and the words of every stage.
func (g *Generator) Build(ctx context.Context) (assets.ReportTemplate, error) {
	counts, err := g.repository.CountByStage(ctx)
	if err != nil {
		return assets.ReportTemplate{}, fmt.Errorf("repository.CountByStage() > %w", err)
	}

	stages := make([]assets.ReportStage, 0, len(word.Stages()))
	for _, stage := range word.Stages() {
		var words []word.Word
		if counts[stage] > 0 {
			words, err = g.repository.FindByStage(ctx, stage)
			if err != nil {
				return assets.ReportTemplate{}, fmt.Errorf("repository.FindByStage(%d) > %w", stage, err)
			}
		}
		stages = append(stages, assets.ReportStage{
			Stage: int(stage),
			Label: stage.String(),
			Count: len(words),
			Words: lo.Map(words, func(w word.Word, _ int) assets.ReportWord {
				return assets.ReportWord{
					TargetWord:      w.TargetWord,
					Translation:     w.Translation,
					PartOfSpeech:    w.PartOfSpeech,
					ExampleSentence: w.ExampleSentence,
					CreatedAt:       w.CreatedAt,
					LastTouchedAt:   w.LastTouchedAt,
				}
			}),
		})
	}

	return assets.ReportTemplate{
		GeneratedAt: g.clock(),
		Total:       lo.SumBy(stages, func(s assets.ReportStage) int { return s.Count }),
		Stages:      stages,
	}, nil
}

// WriteMarkdown renders the report to w.
func (g *Generator) WriteMarkdown(ctx context.Context, w io.Writer) error {
	data, err := g.Build(ctx)
	if err != nil {
		return err
	}
	if err := assets.WriteReport(w, g.templatePath, data); err != nil {
		return fmt.Errorf("assets.WriteReport() > %w", err)
	}
	return nil
}

// Output is where a report was written.
type Output struct {
	MarkdownPath string
	PDFPath      string
}

// Generate writes the report as markdown under the output directory and converts it to PDF.
// With withPDF false only the markdown file is written.
func (g *Generator) Generate(ctx context.Context, withPDF bool) (Output, error) {
	var buf bytes.Buffer
	if err := g.WriteMarkdown(ctx, &buf); err != nil {
		return Output{}, err
	}

	if err := os.MkdirAll(g.outputDirectory, 0755); err != nil {
		return Output{}, fmt.Errorf("os.MkdirAll(%s) > %w", g.outputDirectory, err)
	}
	fileName := fmt.Sprintf("report-%s.md", g.clock().Format("20060102-150405"))
	output := Output{
		MarkdownPath: filepath.Join(g.outputDirectory, fileName),
	}
	if err := os.WriteFile(output.MarkdownPath, buf.Bytes(), 0644); err != nil {
		return Output{}, fmt.Errorf("os.WriteFile(%s) > %w", output.MarkdownPath, err)
	}
	if !withPDF {
		return output, nil
	}

	pdfPath, err := g.convert(output.MarkdownPath)
	if err != nil {
		return output, fmt.Errorf("pdf.ConvertMarkdownToPDF(%s) > %w", output.MarkdownPath, err)
	}
	output.PDFPath = pdfPath
	return output, nil
}
