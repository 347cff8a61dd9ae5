package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/models"
)

type parsedRecord struct {
	Record   models.StudentRecord      `json:"record"`
	Labels   []string                  `json:"course_labels"`
	Warnings []enrollment.FieldWarning `json:"warnings,omitempty"`
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a raw student object or array and report dropped fields",
		Long:  "Reads student JSON from a file, or stdin when the file is omitted or '-'.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			catalog, warnings, err := loadCatalog(cmd.Context(), opts)
			if err != nil {
				return err
			}
			reportWarnings(cmd.ErrOrStderr(), "catalog", warnings)

			records, err := parseDocument(data, catalog)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, records)
		},
	}
}

func parseDocument(data []byte, catalog *enrollment.Catalog) ([]parsedRecord, error) {
	items, err := splitDocument(data)
	if err != nil {
		return nil, err
	}
	out := make([]parsedRecord, 0, len(items))
	for _, item := range items {
		rec, warnings := enrollment.ParseJSON(item)
		out = append(out, parsedRecord{
			Record:   rec,
			Labels:   enrollment.Labels(rec.Enrollment, catalog),
			Warnings: warnings,
		})
	}
	return out, nil
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
