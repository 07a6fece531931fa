package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/classmark/classmark/internal/database"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Inspect the attendance log",
}

var attendanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attendance rows, newest first",
	RunE:  runAttendanceList,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)
	attendanceCmd.AddCommand(attendanceListCmd)

	attendanceListCmd.Flags().String("date", "", "Only rows for one day (YYYY-MM-DD)")
	attendanceListCmd.Flags().Bool("today", false, "Only rows for today")
}

func runAttendanceList(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()

	date := mustGetString(cmd, "date")
	if mustGetBool(cmd, "today") {
		date = time.Now().Format(database.DateLayout)
	}

	var records []database.AttendanceRecord
	if date != "" {
		records, err = d.attendance.ListByDate(ctx, date)
	} else {
		records, err = d.attendance.List(ctx)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tNAME\tSUBJECT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Date, r.Time, r.Name, r.Subject)
	}
	return w.Flush()
}
