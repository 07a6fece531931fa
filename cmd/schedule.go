package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/classmark/classmark/internal/database"
	"github.com/classmark/classmark/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the class timetable",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all timetable windows",
	RunE:  runScheduleList,
}

var scheduleCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the class active right now",
	RunE:  runScheduleCurrent,
}

var scheduleImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import timetable windows from a YAML file",
	Long: `Import timetable windows from a YAML file. The file lists windows in
priority order; when windows overlap, the first one wins:

    windows:
      - subject: Mathematics
        start: "09:00"
        end: "10:00"
        branch: CSE
        day: Monday`,
	Args: cobra.ExactArgs(1),
	RunE: runScheduleImport,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleCurrentCmd)
	scheduleCmd.AddCommand(scheduleImportCmd)

	scheduleImportCmd.Flags().Bool("replace", false, "Delete existing windows before importing")
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	windows, err := d.timetable.ListWindows(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUBJECT\tSTART\tEND\tBRANCH\tDAY")
	for _, win := range windows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", win.ID, win.Subject, win.Start, win.End, win.Branch, win.Day)
	}
	return w.Flush()
}

func runScheduleCurrent(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	records, err := d.timetable.ListWindows(context.Background())
	if err != nil {
		return err
	}
	windows, err := schedule.FromRecords(records)
	if err != nil {
		return err
	}

	now := schedule.ClockFromTime(time.Now())
	subject, ok := schedule.Resolve(now, windows)
	if !ok {
		fmt.Printf("No class is scheduled at %s\n", now)
		return nil
	}
	fmt.Printf("Active class at %s: %s\n", now, subject)
	return nil
}

type timetableFile struct {
	Windows []struct {
		Subject string `yaml:"subject"`
		Start   string `yaml:"start"`
		End     string `yaml:"end"`
		Branch  string `yaml:"branch"`
		Day     string `yaml:"day"`
	} `yaml:"windows"`
}

func runScheduleImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read timetable file: %w", err)
	}

	var file timetableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse timetable file: %w", err)
	}

	// Validate every window before touching the database.
	for _, w := range file.Windows {
		if w.Subject == "" {
			return fmt.Errorf("window without subject")
		}
		if _, err := schedule.ParseClock(w.Start); err != nil {
			return fmt.Errorf("window %q: %w", w.Subject, err)
		}
		if _, err := schedule.ParseClock(w.End); err != nil {
			return fmt.Errorf("window %q: %w", w.Subject, err)
		}
	}

	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()

	if mustGetBool(cmd, "replace") {
		existing, err := d.timetable.ListWindows(ctx)
		if err != nil {
			return err
		}
		for _, w := range existing {
			if err := d.timetable.DeleteWindow(ctx, w.ID); err != nil {
				return err
			}
		}
	}

	for _, w := range file.Windows {
		win := database.ScheduleWindow{
			Subject: w.Subject,
			Start:   w.Start,
			End:     w.End,
			Branch:  w.Branch,
			Day:     w.Day,
		}
		if err := d.timetable.AddWindow(ctx, &win); err != nil {
			return err
		}
	}

	fmt.Printf("Imported %d timetable windows\n", len(file.Windows))
	return nil
}
