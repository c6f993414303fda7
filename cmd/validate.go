package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/contact"
)

var validateCmd = &cobra.Command{
	Use:   "validate field=value...",
	Short: "Check contact form values against the field rules",
	Long: `Runs the contact form rules on the given values, e.g.

  portfolio validate name=Ada email=ada@example.com

Fields that are not given are not checked. Use --all to check every
required field, treating missing ones as empty.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		form := contact.NewForm(nil, "cli")
		var fields []contact.Field
		for _, arg := range args {
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("argument %q is not field=value", arg)
			}
			f := contact.ParseField(name)
			form.Set(f, value)
			fields = append(fields, f)
		}

		var results []contact.Result
		if all {
			results = form.Validate().Results
		} else {
			for _, f := range fields {
				results = append(results, form.Blur(f, form.Value(f)))
			}
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "ok    %s\n", r.Field)
				continue
			}
			failed++
			fmt.Fprintf(out, "fail  %s: %s\n", r.Field, r.Message)
		}
		if failed > 0 {
			return fmt.Errorf("%d field(s) failed validation", failed)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("all", false, "check every required field")
	rootCmd.AddCommand(validateCmd)
}
