package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nutiai.com/nutiai-server/internal/app"
	"nutiai.com/nutiai-server/internal/report"
)

var exportCmd = &cobra.Command{
	Use:       "export diet|workout",
	Short:     "Write a saved diet or workout of a user as PDF",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"diet", "workout"},
	RunE:      runExport,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the users with local data",
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := openLocal()
		if err != nil {
			return err
		}
		defer local.Close()
		users, err := local.Namespaces()
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("user", "", "user id (see 'nutiai users')")
	exportCmd.Flags().String("id", "", "saved diet or workout id")
	exportCmd.Flags().StringP("out", "o", "", "output file, defaults to the plan name")
	_ = exportCmd.MarkFlagRequired("user")
	_ = exportCmd.MarkFlagRequired("id")
}

func runExport(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")
	id, _ := cmd.Flags().GetString("id")
	out, _ := cmd.Flags().GetString("out")

	local, err := openLocal()
	if err != nil {
		return err
	}
	defer local.Close()
	c := app.NewRegistry(local, app.Options{Logger: newLogger()}).Get(user)

	var name string
	var render func(io.Writer) error
	switch args[0] {
	case "diet":
		diet, err := c.Diet(id)
		if err != nil {
			return err
		}
		name = diet.Name
		render = func(w io.Writer) error { return report.DietPDF(w, diet) }
	case "workout":
		workout, err := c.Workout(id)
		if err != nil {
			return err
		}
		name = workout.Name
		render = func(w io.Writer) error { return report.WorkoutPDF(w, workout) }
	}

	if out == "" {
		out = report.Filename(name)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
