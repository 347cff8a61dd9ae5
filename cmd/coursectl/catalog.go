package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/upstream"
	"github.com/noah-isme/sma-course-gateway/pkg/config"
)

// loadCatalog returns nil when neither a file nor an upstream is given, which
// puts the resolver in pass-through mode.
func loadCatalog(ctx context.Context, opts *rootOptions) (*enrollment.Catalog, []enrollment.FieldWarning, error) {
	switch {
	case opts.catalogFile != "":
		return readCatalogFile(opts.catalogFile)
	case opts.upstreamURL != "":
		client := upstream.NewClient(config.UpstreamConfig{
			BaseURL: strings.TrimRight(opts.upstreamURL, "/"),
			Timeout: 10 * time.Second,
		}, nil, nil)
		defer client.Close()
		courses, warnings, err := client.ListCourses(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch catalog: %w", err)
		}
		return enrollment.NewCatalog(courses), warnings, nil
	default:
		return nil, nil, nil
	}
}

// readCatalogFile accepts a YAML or JSON list of course objects using any of
// the upstream field aliases.
func readCatalogFile(path string) (*enrollment.Catalog, []enrollment.FieldWarning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}
	var items []interface{}
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	for i, item := range items {
		items[i] = stringKeys(item)
	}
	courses, warnings := enrollment.ParseCourses(items)
	return enrollment.NewCatalog(courses), warnings, nil
}

// stringKeys converts YAML maps with non-string keys so the parser sees JSON-like objects.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]interface{}:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}

func reportWarnings(w io.Writer, source string, warnings []enrollment.FieldWarning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s: %s\n", source, warning)
	}
}
