package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/rxdbg/internal/app"
)

// NewExplainCommand creates the explain command
func NewExplainCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "explain <pattern>",
		Short: "Explain a pattern token by token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(container.Explainer.Lines(args[0]))
			}
			fmt.Fprint(out, container.Explainer.Explain(args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print token/description pairs as JSON")
	return cmd
}
