package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/analyzer"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/searchrun"
)

// Renderer writes analysis reports as JSON and Markdown and prints the
// stdout summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// ReportBaseName builds the output file base name from the handle and the
// run start time.
func ReportBaseName(report *analyzer.Report) string {
	handle := report.Handle
	if handle == "" {
		handle = "unknown"
	}
	return fmt.Sprintf("%s-%s-%s", handle, report.Mode, report.StartTime.Format("20060102-150405"))
}

// RenderJSON writes the already-encoded report
func (r *Renderer) RenderJSON(result *RunResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, result.JSON, 0644)
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(report *analyzer.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "# Suppression report for @%s\n\n", report.Handle)
	fmt.Fprintf(&sb, "- Mode: %s\n", report.Mode)
	fmt.Fprintf(&sb, "- Run started: %s\n", report.StartTime.Format("2006-01-02 15:04:05 MST"))
	if report.RankerName != "" {
		fmt.Fprintf(&sb, "- Ranking function: %s\n", report.RankerName)
	}
	fmt.Fprintf(&sb, "- Items analyzed: %d\n\n", report.ItemCount())

	switch report.Mode {
	case searchrun.ModeReplies:
		r.writeRepliesMarkdown(&sb, report)
	case searchrun.ModeTimeline:
		r.writeTimelineMarkdown(&sb, report)
	}

	if r.includeFooter {
		sb.WriteString("\n---\n*Statuses describe where posts appeared relative to chronology and engagement; they do not assert why.*\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func (r *Renderer) writeRepliesMarkdown(sb *strings.Builder, report *analyzer.Report) {
	sb.WriteString("## Replies\n\n")
	sb.WriteString("| Tweet | Status | Page rank | Expected by interaction | Expected by date |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, item := range report.RepliesItems {
		fmt.Fprintf(sb, "| %d | %s | %s | %s | %s |\n",
			item.SourceTweet.ID,
			item.Status,
			orderCell(item.Rank),
			orderCell(item.ExpectedRankByInteraction),
			orderCell(item.ExpectedRankByDate))
	}

	sb.WriteString("\n")
	for _, item := range report.RepliesItems {
		fmt.Fprintf(sb, "### Tweet %d (%s)\n\n", item.SourceTweet.ID, item.Status)
		fmt.Fprintf(sb, "- Replies claimed: %d, retrieved: %d, complete: %t\n",
			item.TotalReplies, item.TotalRepliesActual, item.IsComplete)
		fmt.Fprintf(sb, "- %s\n\n", item.SourceTweet.Summary())
	}
}

func (r *Renderer) writeTimelineMarkdown(sb *strings.Builder, report *analyzer.Report) {
	sb.WriteString("## Timeline\n\n")
	sb.WriteString("| Tweet | Status | Suppressed | Hidden | Replies retrieved |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, item := range report.TimelineItems {
		fmt.Fprintf(sb, "| %d | %s | %d | %d | %d/%d |\n",
			item.SourceTweet.ID,
			item.Status,
			item.NumSuppressed,
			item.NumHidden,
			item.TotalRepliesActual,
			item.TotalReplies)
	}

	sb.WriteString("\n")
	for _, item := range report.TimelineItems {
		fmt.Fprintf(sb, "### Tweet %d (%s)\n\n", item.SourceTweet.ID, item.Status)
		fmt.Fprintf(sb, "- %s\n", item.SourceTweet.Summary())
		if len(item.AnomalousSuppressedOrHidden) > 0 {
			fmt.Fprintf(sb, "- Ranked high but pushed down or hidden: %d\n", len(item.AnomalousSuppressedOrHidden))
			for _, at := range item.AnomalousSuppressedOrHidden {
				fmt.Fprintf(sb, "  - %s\n", at.Summary())
			}
		}
		if len(item.AnomalousElevated) > 0 {
			fmt.Fprintf(sb, "- Ranked low but shown high: %d\n", len(item.AnomalousElevated))
			for _, at := range item.AnomalousElevated {
				fmt.Fprintf(sb, "  - %s\n", at.Summary())
			}
		}
		if len(item.HiddenTweets) > 0 {
			fmt.Fprintf(sb, "- Hidden replies: %d\n", len(item.HiddenTweets))
		}
		sb.WriteString("\n")
	}
}

// RenderSummaryMarkdown writes the optional LLM summary to its own file
func (r *Renderer) RenderSummaryMarkdown(report *analyzer.Report, path string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Summary for @%s\n\n", report.Handle)
	sb.WriteString(report.Summary)
	sb.WriteString("\n\n---\n*Generated by a language model from the report above; not part of the analysis.*\n")
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// RenderSummary prints a short digest to stdout
func (r *Renderer) RenderSummary(report *analyzer.Report) {
	fmt.Printf("\n@%s, %s run, %d item(s)\n", report.Handle, report.Mode, report.ItemCount())
	fmt.Print(r.Digest(report))
	if report.Summary != "" {
		fmt.Printf("\n%s\n", report.Summary)
	}
}

// Digest renders a plain-text status breakdown. It doubles as the report
// body handed to the LLM summary prompt.
func (r *Renderer) Digest(report *analyzer.Report) string {
	var sb strings.Builder

	if report.Mode == searchrun.ModeTimeline {
		counts := map[analyzer.TimelineStatus]int{}
		for _, item := range report.TimelineItems {
			counts[item.Status]++
		}
		for _, status := range []analyzer.TimelineStatus{
			analyzer.TimelineSuppressedMany,
			analyzer.TimelineVisibleMany,
			analyzer.TimelineVisibleMost,
		} {
			if counts[status] > 0 {
				fmt.Fprintf(&sb, "  %s: %d\n", status, counts[status])
			}
		}
		return sb.String()
	}

	counts := map[analyzer.TweetStatus]int{}
	for _, item := range report.RepliesItems {
		counts[item.Status]++
	}
	for _, status := range []analyzer.TweetStatus{
		analyzer.StatusCensoredNotFound,
		analyzer.StatusCensoredHidden,
		analyzer.StatusCensoredAbusive,
		analyzer.StatusSuppressedNormal,
		analyzer.StatusSuppressedWorse,
		analyzer.StatusSuppressedWorst,
		analyzer.StatusVisibleBest,
		analyzer.StatusVisibleBetter,
		analyzer.StatusVisibleNormal,
		analyzer.StatusVisibleWorse,
		analyzer.StatusVisibleWorst,
	} {
		if counts[status] > 0 {
			fmt.Fprintf(&sb, "  %s: %d\n", status, counts[status])
		}
	}
	return sb.String()
}

// orderCell renders a 1-based order, "-" when it was never computed.
func orderCell(order int) string {
	if order == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", order)
}
