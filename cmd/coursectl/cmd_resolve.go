package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
)

type resolveOutput struct {
	Tokens     []string              `json:"tokens"`
	Resolution enrollment.Resolution `json:"resolution"`
	Blocked    bool                  `json:"blocked"`
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <courses>",
		Short: "Resolve comma separated course names or ids against the catalog",
		Long: "Without --catalog or --upstream, names pass through unchanged and numeric ids stay unknown.\n" +
			"Exits non-zero when every token is unknown.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, warnings, err := loadCatalog(cmd.Context(), opts)
			if err != nil {
				return err
			}
			reportWarnings(cmd.ErrOrStderr(), "catalog", warnings)
			tokens := enrollment.Tokenize(strings.Join(args, ","))
			res := enrollment.ResolveTokens(tokens, catalog)
			if err := render(cmd.OutOrStdout(), opts.output, resolveOutput{Tokens: tokens, Resolution: res, Blocked: res.Blocked()}); err != nil {
				return err
			}
			return res.Err()
		},
	}
}
