// Package observability provides structured logging and formatted output
// utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-bender/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintJobFacts outputs a summary of a scanned job posting.
func (p *Printer) PrintJobFacts(job *types.JobFacts) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", types.Deref(job.CompanyName, "unknown")))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", types.Deref(job.RawTitle, "unknown")))
	sb.WriteString(fmt.Sprintf("Location: %s\n\n", types.Deref(job.Location, "not specified")))
	writeList(&sb, "Must-have", job.MustHaveSkills, maxItemsToShow)
	writeList(&sb, "Nice-to-have", job.NiceToHaveSkills, 3)

	p.printBox("SCANNED JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeFacts outputs a summary of a scanned resume.
func (p *Printer) PrintResumeFacts(resume *types.ResumeFacts) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", types.Deref(resume.CandidateName, "unknown")))
	if resume.TotalYearsExperience != nil {
		sb.WriteString(fmt.Sprintf("Years:     %.1f\n", *resume.TotalYearsExperience))
	} else {
		sb.WriteString("Years:     unknown\n")
	}
	sb.WriteString("\n")
	writeList(&sb, "Skills", resume.GlobalSkills, maxItemsToShow)
	writeList(&sb, "Tools", resume.ToolsAndTech, 3)

	p.printBox("SCANNED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAtsResult outputs the ATS coverage score with matched and missing skills.
func (p *Printer) PrintAtsResult(ats *types.AtsResult) {
	if ats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS score: %.2f\n\n", ats.AtsScore))
	writeList(&sb, "Matched", ats.MatchedSkills, maxItemsToShow)
	writeList(&sb, "Missing must-have", ats.MissingMustHaveSkills, maxItemsToShow)
	writeList(&sb, "Missing nice-to-have", ats.MissingNiceToHaveSkills, 3)
	writeList(&sb, "Extra", ats.ExtraResumeSkills, 3)

	p.printBox("ATS MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRiskResult outputs the risk score and each triggered factor.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRiskResult(risk *types.RiskResult) {
	if risk == nil {
		return
	}
	if len(risk.Factors) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ RISK %.2f, NO FACTORS", risk.RiskScore))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Risk score: %.2f\n\n", risk.RiskScore))
	for i, f := range risk.Factors {
		sb.WriteString(fmt.Sprintf("⚠ %s (%+.2f)\n", f.Name, f.Weight))
		sb.WriteString(fmt.Sprintf("  %s\n", f.Description))
		if i < len(risk.Factors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RISK FACTORS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFirstImpression outputs the recruiter-skim report.
func (p *Printer) PrintFirstImpression(fi *types.FirstImpression) {
	if fi == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Label:    %s\n", fi.Label))
	sb.WriteString(fmt.Sprintf("ATS:      %.2f\n", fi.AtsScore))
	sb.WriteString(fmt.Sprintf("Risk:     %.2f\n", fi.RiskScore))
	if fi.CarScore != nil {
		sb.WriteString(fmt.Sprintf("CAR:      %.2f\n", *fi.CarScore))
	} else {
		sb.WriteString("CAR:      n/a\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fi.Headline + "\n\n")

	count := min(len(fi.Highlights), types.MaxHighlights)
	for i := 0; i < count; i++ {
		h := fi.Highlights[i]
		marker := "•"
		switch h.Kind {
		case types.KindStrength:
			marker = "✓"
		case types.KindConcern:
			marker = "⚠"
		}
		sb.WriteString(fmt.Sprintf("%s [%s] %s\n", marker, h.Importance, h.Title))
	}

	p.printBox("FIRST IMPRESSION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBenderScore outputs the sub-scores and final Bender score.
func (p *Printer) PrintBenderScore(bs *types.BenderScore) {
	if bs == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS alignment:           %6.2f\n", bs.AtsAlignment))
	sb.WriteString(fmt.Sprintf("Experience fit:          %6.2f\n", bs.ExperienceFit))
	if bs.CarQuality != nil {
		sb.WriteString(fmt.Sprintf("CAR quality:             %6.2f\n", *bs.CarQuality))
	} else {
		sb.WriteString("CAR quality:                n/a\n")
	}
	sb.WriteString(fmt.Sprintf("Resume clarity:          %6.2f\n", bs.ResumeClarity))
	sb.WriteString(fmt.Sprintf("Company competitiveness: %6.2f\n", bs.CompanyCompetitiveness))
	sb.WriteString(fmt.Sprintf("Risk adjustment:         %6.2f\n", bs.RiskAdjustment))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("FINAL:                   %6.2f", bs.FinalBenderScore))

	p.printBox("BENDER SCORE", sb.String())
}

// PrintResumeExtract outputs the result of extracting text from a resume file.
func (p *Printer) PrintResumeExtract(ex *types.ResumeExtract) {
	if ex == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", ex.Filename))
	sb.WriteString(fmt.Sprintf("Type:     %s\n", ex.ContentType))
	sb.WriteString(fmt.Sprintf("Size:     %d bytes\n", ex.SizeBytes))
	sb.WriteString(fmt.Sprintf("Text:     %d chars\n", ex.TextLength))
	if ex.ProbablyScanned {
		sb.WriteString("⚠ No text layer found, the PDF is probably scanned\n")
	}
	sb.WriteString("\n")
	sb.WriteString(ex.HeadPreviewText)

	p.printBox("RESUME EXTRACT", sb.String())
}

// PrintJobDescription outputs how a job description was fetched.
func (p *Printer) PrintJobDescription(jd *types.JobDescription) {
	if jd == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:      %s\n", types.Deref(&jd.FinalURL, jd.URL)))
	if jd.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", jd.Title))
	}
	sb.WriteString(fmt.Sprintf("Path:     %s\n", jd.Path))
	sb.WriteString(fmt.Sprintf("Text:     %d chars\n", len(jd.Text)))
	sb.WriteString(fmt.Sprintf("Chunks:   %d", len(jd.Chunks)))

	p.printBox("JOB DESCRIPTION", sb.String())
}
