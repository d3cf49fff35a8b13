// Command ssi computes the Spectral Similarity Index of measured light
// sources against a reference illuminant.
//
// Usage:
//
//	ssi -test led.csv [-column name | -all] [-reference default|A|D50|D55|D65|D75|blackbody|daylight|file]
//	    [-cct K] [-ref-file ref.csv -ref-column name] [-config ssi.yaml] [-json] [-log-level debug]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/sonido-ssi/colorimetry"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/config"
	"github.com/RyanBlaney/sonido-ssi/ingest"
	"github.com/RyanBlaney/sonido-ssi/logging"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	configPath  string
	testPath    string
	column      string
	reference   string
	cct         float64
	refPath     string
	refColumn   string
	all         bool
	jsonOutput  bool
	logLevel    string
	printConfig bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	fs := flag.NewFlagSet("ssi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML or JSON configuration file")
	fs.StringVar(&opts.testPath, "test", "", "CSV table holding the test spectrum")
	fs.StringVar(&opts.column, "column", "", "intensity column of the test table")
	fs.StringVar(&opts.reference, "reference", "default", "reference: default, A, D50, D55, D65, D75, blackbody, daylight or file")
	fs.Float64Var(&opts.cct, "cct", 0, "CCT in K for a blackbody or daylight reference")
	fs.StringVar(&opts.refPath, "ref-file", "", "CSV table holding a custom reference spectrum")
	fs.StringVar(&opts.refColumn, "ref-column", "", "intensity column of the reference table")
	fs.BoolVar(&opts.all, "all", false, "evaluate every intensity column of the test table")
	fs.BoolVar(&opts.jsonOutput, "json", false, "print reports as JSON")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error), overrides the config")
	fs.BoolVar(&opts.printConfig, "print-config", false, "print the effective configuration and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "ssi: %v\n", err)
		return exitUsage
	}

	logger := logging.NewDefaultLoggerTo(stderr, false)
	logger.SetLevel(cfg.Level())
	logging.SetGlobalLogger(logger)

	if opts.printConfig {
		out, err := cfg.AsYAML()
		if err != nil {
			logger.Error(err, "Failed to render configuration")
			return exitError
		}
		fmt.Fprint(stdout, out)
		return exitOK
	}

	if opts.testPath == "" {
		fmt.Fprintln(stderr, "ssi: -test is required")
		fs.Usage()
		return exitUsage
	}
	if opts.all && opts.column != "" {
		fmt.Fprintln(stderr, "ssi: -all and -column are mutually exclusive")
		return exitUsage
	}

	calc, err := colorimetry.NewCalculator(cfg, nil)
	if err != nil {
		logger.Error(err, "Failed to initialize calculator")
		return exitError
	}

	ref, err := buildReference(opts)
	if err != nil {
		fmt.Fprintf(stderr, "ssi: %v\n", err)
		return exitUsage
	}

	tests, err := loadTests(opts)
	if err != nil {
		logger.Error(err, "Failed to read test spectra", logging.Fields{"file": opts.testPath})
		return exitError
	}

	var reports []*colorimetry.Report
	if len(tests) == 1 {
		report, err := calc.EvaluateNamed(tests[0], ref)
		if err != nil {
			logger.Error(err, "Evaluation failed", logging.Fields{"spectrum": tests[0].Name})
			return exitError
		}
		reports = append(reports, report)
	} else {
		reports, err = calc.EvaluateBatch(tests, ref)
		if err != nil {
			logger.Error(err, "Batch evaluation failed")
			return exitError
		}
	}

	if err := writeReports(stdout, reports, opts.jsonOutput, opts.all); err != nil {
		logger.Error(err, "Failed to write reports")
		return exitError
	}
	return exitOK
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.logLevel != "" {
		if _, err := logging.ParseLevel(opts.logLevel); err != nil {
			return nil, err
		}
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func buildReference(opts options) (colorimetry.Reference, error) {
	family := strings.ToLower(strings.TrimSpace(opts.reference))
	if opts.cct != 0 && family != "blackbody" && family != "daylight" {
		return colorimetry.Reference{}, errors.New("-cct requires -reference blackbody or daylight")
	}

	if !strings.EqualFold(opts.reference, "file") {
		if opts.refPath != "" {
			return colorimetry.Reference{}, errors.New("-ref-file requires -reference file")
		}
		return colorimetry.ParseReference(opts.reference, opts.cct)
	}

	if opts.refPath == "" {
		return colorimetry.Reference{}, errors.New("-reference file requires -ref-file")
	}
	table, err := ingest.NewDecoder(nil).DecodeFile(opts.refPath)
	if err != nil {
		return colorimetry.Reference{}, err
	}
	column := opts.refColumn
	if column == "" {
		if column, err = table.DefaultColumn(); err != nil {
			return colorimetry.Reference{}, err
		}
	}
	s, err := table.Spectrum(column)
	if err != nil {
		return colorimetry.Reference{}, err
	}
	return colorimetry.SpectrumReference(column, s), nil
}

func loadTests(opts options) ([]colorimetry.NamedSpectrum, error) {
	table, err := ingest.NewDecoder(nil).DecodeFile(opts.testPath)
	if err != nil {
		return nil, err
	}

	var columns []string
	switch {
	case opts.all:
		columns = table.Columns()
	case opts.column != "":
		columns = []string{opts.column}
	default:
		column, err := table.DefaultColumn()
		if err != nil {
			return nil, err
		}
		columns = []string{column}
	}

	tests := make([]colorimetry.NamedSpectrum, 0, len(columns))
	for _, column := range columns {
		s, err := table.Spectrum(column)
		if err != nil {
			return nil, err
		}
		name := column
		if len(columns) == 1 && !opts.all {
			name = strings.TrimSuffix(filepath.Base(opts.testPath), filepath.Ext(opts.testPath)) + ":" + column
		}
		tests = append(tests, colorimetry.NamedSpectrum{Name: name, Spectrum: s})
	}
	return tests, nil
}

func writeReports(w io.Writer, reports []*colorimetry.Report, asJSON, asList bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if asList {
			return enc.Encode(reports)
		}
		return enc.Encode(reports[0])
	}

	for i, r := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := r.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}
