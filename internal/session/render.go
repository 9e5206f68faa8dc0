package session

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/text"
	"github.com/dustin/go-humanize"

	"github.com/Cloudsky01/gh-runwatch/internal/theme"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

const timeLayout = "Jan 2, 2006 3:04 PM"

// RenderRuns prints runs as a flat numbered list, or grouped by workflow name
// when grouped is set
func RenderRuns(w io.Writer, th *theme.Theme, repo models.RepoRef, runs *models.RunCollection, grouped bool, now time.Time) {
	if runs == nil || len(runs.WorkflowRuns) == 0 {
		fmt.Fprintln(w, th.Info(fmt.Sprintf("No workflow runs found on %s.", repo)))
		return
	}

	fmt.Fprintln(w, th.Info(fmt.Sprintf("Found %s on %s:", text.Pluralize(runs.TotalCount, "workflow run"), repo)))
	fmt.Fprintln(w)

	if !grouped {
		for i, run := range runs.WorkflowRuns {
			fmt.Fprintln(w, th.Step(fmt.Sprintf("%d. %s #%d", i+1, run.Name, run.RunNumber)))
			writeRunDetails(w, th, run, "   ", now)
			fmt.Fprintln(w)
		}
		return
	}

	for _, group := range models.GroupByName(runs.WorkflowRuns) {
		fmt.Fprintln(w, th.Step(fmt.Sprintf("%s (%s)", group.Name, text.Pluralize(len(group.Runs), "run"))))
		for i, run := range group.Runs {
			fmt.Fprintf(w, "   %s\n", th.Subtitle.Render(fmt.Sprintf("%d. #%d", i+1, run.RunNumber)))
			writeRunDetails(w, th, run, "      ", now)
		}
		fmt.Fprintln(w)
	}
}

func writeRunDetails(w io.Writer, th *theme.Theme, run models.WorkflowRun, indent string, now time.Time) {
	rows := [][2]string{
		{"Status:", th.FormatStatus(run.Status, run.Conclusion)},
		{"Branch:", th.Text.Render(run.HeadBranch)},
		{"Commit:", th.Text.Render(run.ShortSHA())},
		{"Started:", th.Text.Render(formatStarted(run.CreatedAt, now))},
		{"URL:", th.Link.Render(run.HTMLURL)},
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%s%s %s\n", indent, th.Label.Render(padRight(row[0], 8)), row[1])
	}
}

func formatStarted(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format(timeLayout), humanize.RelTime(t, now, "ago", "from now"))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
