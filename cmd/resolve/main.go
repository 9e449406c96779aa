package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/greenmap/internal/feature"
	"github.com/woozymasta/greenmap/internal/kpi"
	"github.com/woozymasta/greenmap/internal/selection"

	"github.com/jessevdk/go-flags"
	"github.com/tdewolff/minify/v2"
	minifyjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input    string `short:"i" long:"in"       description:"Input GeoJSON FeatureCollection. Reads from stdin if empty"`
	Output   string `short:"o" long:"out"      description:"Output file path. Writes to stdout if empty"`
	Format   string `short:"f" long:"format"   description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Language string `short:"l" long:"language" description:"KPI display language" default:"it"`
	Compact  bool   `short:"c" long:"compact"  description:"Minify JSON output"`
}

// Resolved is one normalized feature with its rendered KPIs.
type Resolved struct {
	selection.Selection `yaml:",inline"`
	Display             kpi.Display `json:"display" yaml:"display"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Read Input
	var inputData []byte
	var err error

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
	} else {
		inputData, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	fs, err := feature.DecodeCollection(inputData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding features: %v\n", err)
		os.Exit(1)
	}

	f := kpi.NewFormatter(opts.Language)
	out := make([]Resolved, 0, len(fs))
	for _, raw := range fs {
		sel := selection.Normalize(raw)
		out = append(out, Resolved{Selection: sel, Display: f.Render(sel.KPIs)})
	}

	outputData, err := encode(out, opts.Format, opts.Compact)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully resolved %d features to %s (format: %s)\n", len(out), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

func encode(out []Resolved, format string, compact bool) ([]byte, error) {
	if format == "yaml" {
		return yaml.Marshal(out)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil || !compact {
		return data, err
	}

	m := minify.New()
	m.AddFunc("application/json", minifyjson.Minify)

	var buf bytes.Buffer
	if err := m.Minify("application/json", &buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
