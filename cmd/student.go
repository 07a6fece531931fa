package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/classmark/classmark/internal/database"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage the student roster",
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all enrolled students",
	RunE:  runStudentList,
}

var studentAddCmd = &cobra.Command{
	Use:   "add <enrollment> <name>",
	Short: "Add a student to the roster",
	Args:  cobra.ExactArgs(2),
	RunE:  runStudentAdd,
}

func init() {
	rootCmd.AddCommand(studentCmd)
	studentCmd.AddCommand(studentListCmd)
	studentCmd.AddCommand(studentAddCmd)

	studentAddCmd.Flags().String("branch", "", "Branch or class group")
	studentAddCmd.Flags().String("photo", "", "Gallery photo file name")
}

func runStudentList(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	students, err := d.rosterSrc.List(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENROLLMENT\tNAME\tBRANCH\tPHOTO")
	for _, s := range students {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Enrollment, s.Name, s.Branch, s.Photo)
	}
	return w.Flush()
}

func runStudentAdd(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	s := database.StudentRecord{
		Enrollment: args[0],
		Name:       args[1],
		Branch:     mustGetString(cmd, "branch"),
		Photo:      mustGetString(cmd, "photo"),
	}
	if err := d.roster.Create(context.Background(), &s); err != nil {
		return err
	}

	fmt.Printf("Enrolled %s (%s)\n", s.Name, s.Enrollment)
	return nil
}
