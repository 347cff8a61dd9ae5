package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <text>...",
		Short: "Print the comparison key used to match course names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), enrollment.Normalize(arg)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
