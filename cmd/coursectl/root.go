package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type rootOptions struct {
	catalogFile string
	upstreamURL string
	output      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "coursectl",
		Short:         "Inspect student enrollment payloads and resolve course input",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported output %q, use json or yaml", opts.output)
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.catalogFile, "catalog", "c", "", "course catalog file (JSON or YAML list)")
	root.PersistentFlags().StringVar(&opts.upstreamURL, "upstream", "", "fetch the catalog from this students API base URL")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(newParseCmd(opts), newResolveCmd(opts), newNormalizeCmd())
	return root
}

// render writes v as indented JSON or YAML. YAML goes through JSON first so
// custom JSON marshalers shape both outputs the same way.
func render(w io.Writer, format string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if format != "yaml" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("re-decode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
