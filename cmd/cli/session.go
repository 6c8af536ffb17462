package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cutoffrank/app"
	"cutoffrank/domain/core"
	"cutoffrank/domain/selection"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const accentColor = "99"

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// theme returns the huh theme with the accent color applied
func theme() *huh.Theme {
	t := huh.ThemeCharm()
	p := lipgloss.Color(accentColor)

	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)
	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}

func newSessionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Build a rank-sorted college shortlist interactively",
		Long: `Start a selection session: pick category, college and branch to add
their cutoff ranks to a list, show the list sorted by rank and download it
as CSV. End clears the list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc *app.SelectionService
			var err error

			_ = spinner.New().
				Title("Loading cutoff data...").
				Action(func() {
					svc, err = opts.loadService(cmd.Context())
				}).
				Run()

			if err != nil {
				return err
			}
			return runSession(cmd.Context(), cmd.OutOrStdout(), svc, opts.output)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "CSV path for downloads (default selected_colleges_<date>.csv)")

	return cmd
}

func runSession(ctx context.Context, w io.Writer, svc *app.SelectionService, output string) error {
	view, err := svc.NewSession(ctx)
	if err != nil {
		return err
	}
	id := view.ID

	for {
		var mode string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Sort the college").
					Description("Choose Start to enter the college sorting or End to end the session.").
					Options(
						huh.NewOption("Start", "start"),
						huh.NewOption("End", "end"),
						huh.NewOption("Quit", "quit"),
					).
					Value(&mode),
			),
		).WithTheme(theme())

		if err := form.Run(); err != nil {
			return err
		}

		switch mode {
		case "quit":
			return svc.Discard(ctx, id)
		case "end":
			if _, err := svc.End(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(w, successStyle.Render("Session ended successfully!"))
		case "start":
			if _, err := svc.Start(ctx, id); err != nil {
				return err
			}
			if err := runSelecting(ctx, w, svc, id, output); err != nil {
				return err
			}
		}
	}
}

func runSelecting(ctx context.Context, w io.Writer, svc *app.SelectionService, id core.SessionID, output string) error {
	for {
		var action string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What would you like to do?").
					Options(
						huh.NewOption("Add to list", "add"),
						huh.NewOption("Show the sorted list", "show"),
						huh.NewOption("Download as CSV", "download"),
						huh.NewOption("Back", "back"),
					).
					Value(&action),
			),
		).WithTheme(theme())

		if err := form.Run(); err != nil {
			return err
		}

		var err error
		switch action {
		case "back":
			return nil
		case "add":
			err = addInteractive(ctx, w, svc, id)
		case "show":
			err = showList(ctx, w, svc, id)
		case "download":
			_, err = downloadList(ctx, w, svc, id, output)
		}
		if err != nil {
			return err
		}
	}
}

func addInteractive(ctx context.Context, w io.Writer, svc *app.SelectionService, id core.SessionID) error {
	var picks selection.Picks

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Category").
				Options(huh.NewOptions(svc.Categories()...)...).
				Value(&picks.Category),
			huh.NewSelect[string]().
				Title("Select College").
				Options(huh.NewOptions(svc.Colleges()...)...).
				Value(&picks.College).
				Height(12),
		),
	).WithTheme(theme())
	if err := form.Run(); err != nil {
		return err
	}

	branches := svc.Branches(picks.College)
	if len(branches) > 0 {
		branchForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("Select Branch at %s", picks.College)).
					Options(huh.NewOptions(branches...)...).
					Value(&picks.Branch).
					Height(12),
			),
		).WithTheme(theme())
		if err := branchForm.Run(); err != nil {
			return err
		}
	}

	return addPicks(ctx, w, svc, id, picks)
}

// addPicks reports the outcome of an Add. Rejected picks are recoverable, so
// they are printed rather than returned.
func addPicks(ctx context.Context, w io.Writer, svc *app.SelectionService, id core.SessionID, picks selection.Picks) error {
	entry, err := svc.Add(ctx, id, picks)
	switch {
	case err == nil:
		fmt.Fprintln(w, successStyle.Render("Cutoff Rank: "+entry.Cutoff.String()))
	case core.IsValidationError(err):
		fmt.Fprintln(w, warnStyle.Render("Please make valid selections for Category, College, and Branch."))
	case core.IsNotFoundError(err):
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("No data available for %s in %s under %s.", picks.College, picks.Branch, picks.Category)))
	default:
		return err
	}
	return nil
}

func showList(ctx context.Context, w io.Writer, svc *app.SelectionService, id core.SessionID) error {
	entries, err := svc.Show(ctx, id)
	if core.IsEmptyListError(err) {
		fmt.Fprintln(w, "No selections made yet.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Selected Colleges and Cutoffs:")
	fmt.Fprintln(w, renderEntries(entries))
	return nil
}

func renderEntries(entries []selection.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(accentColor))).
		Headers(selection.ExportHeader...)
	for _, e := range entries {
		t.Row(e.College, e.Branch, e.Cutoff.String())
	}
	return t.String()
}

// downloadList writes the CSV export to output, or to the dated default
// filename in the working directory, and returns the path written
func downloadList(ctx context.Context, w io.Writer, svc *app.SelectionService, id core.SessionID, output string) (string, error) {
	export, err := svc.Export(ctx, id)
	if core.IsEmptyListError(err) {
		fmt.Fprintln(w, "No selections made yet.")
		return "", nil
	}
	if err != nil {
		return "", err
	}

	path := output
	if path == "" {
		path = export.Filename
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, export.Content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(w, successStyle.Render("Saved "+path))
	return path, nil
}
