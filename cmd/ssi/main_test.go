package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
	"github.com/RyanBlaney/sonido-ssi/colorimetry"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/illuminant"
	"github.com/RyanBlaney/sonido-ssi/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTable writes a CSV with a blackbody column and a flat column
func writeTable(t *testing.T) string {
	t.Helper()

	grid := common.IntegerGrid(300, 830, 1)
	bb, err := illuminant.NewPlanckian().Radiate(illuminant.IlluminantACCT, grid)
	require.NoError(t, err)

	var b strings.Builder
	b.WriteString("wavelength,tungsten,flat\n")
	for i, wl := range grid {
		fmt.Fprintf(&b, "%g,%g,1\n", wl, bb.Intensities()[i]/1e12)
	}

	path := filepath.Join(t.TempDir(), "lamps.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	previous := logging.GetGlobalLogger()
	t.Cleanup(func() { logging.SetGlobalLogger(previous) })

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunPresetJSON(t *testing.T) {
	path := writeTable(t)

	code, out, errOut := runCLI(t, "-test", path, "-column", "tungsten", "-reference", "A", "-json")
	require.Equal(t, exitOK, code, errOut)

	var report colorimetry.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 100, report.SSI)
	assert.Equal(t, "lamps:tungsten", report.Name)
	assert.Equal(t, illuminant.FamilyBlackbody, report.Reference.Family)
	assert.Equal(t, colorimetry.ReferencePreset, report.Reference.Kind)
}

func TestRunAllColumnsText(t *testing.T) {
	path := writeTable(t)

	code, out, errOut := runCLI(t, "-test", path, "-all", "-reference", "file", "-ref-file", path, "-ref-column", "flat")
	require.Equal(t, exitOK, code, errOut)

	blocks := strings.Split(strings.TrimSpace(out), "\n\n")
	require.Len(t, blocks, 2)
	assert.True(t, strings.HasPrefix(blocks[0], "tungsten [CCT: "))
	assert.True(t, strings.HasPrefix(blocks[1], "flat [CCT: "))
	assert.True(t, strings.HasSuffix(blocks[1], "Spectral Similarity Index: 100"))
	assert.Contains(t, blocks[0], "Reference: flat: Reference spectrum with CCT = ")
}

func TestRunAllColumnsJSON(t *testing.T) {
	path := writeTable(t)

	code, out, errOut := runCLI(t, "-test", path, "-all", "-reference", "daylight", "-cct", "5500", "-json")
	require.Equal(t, exitOK, code, errOut)

	var reports []colorimetry.Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, 5500.0, r.Reference.SynthesisCCT)
		assert.Equal(t, illuminant.FamilyDaylight, r.Reference.Family)
		assert.Less(t, r.SSI, 100)
	}
}

func TestRunUsageErrors(t *testing.T) {
	path := writeTable(t)

	cases := map[string][]string{
		"missing test":        {},
		"column and all":      {"-test", path, "-all", "-column", "flat"},
		"unknown preset":      {"-test", path, "-column", "flat", "-reference", "F11"},
		"file without path":   {"-test", path, "-column", "flat", "-reference", "file"},
		"ref-file wrong mode": {"-test", path, "-column", "flat", "-ref-file", path},
		"bad log level":       {"-test", path, "-log-level", "loud"},
		"cct with default":    {"-test", path, "-column", "flat", "-cct", "5000"},
		"cct with preset":     {"-test", path, "-column", "flat", "-reference", "D65", "-cct", "5000"},
		"cct with file":       {"-test", path, "-column", "flat", "-reference", "file", "-ref-file", path, "-cct", "5000"},
		"bad flag":            {"-nope"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, _ := runCLI(t, args...)
			assert.Equal(t, exitUsage, code)
		})
	}
}

func TestRunEvaluationErrors(t *testing.T) {
	path := writeTable(t)

	// two intensity columns and none named "intensity"
	code, _, errOut := runCLI(t, "-test", path)
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "choose one of tungsten, flat")

	code, _, errOut = runCLI(t, "-test", path, "-column", "flat", "-reference", "blackbody", "-cct", "20000")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "blackbody CCT 20000 is above the upper bound 10000")

	code, _, _ = runCLI(t, "-test", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Equal(t, exitError, code)
}

func TestRunPrintConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "ssi.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 3\n"), 0o644))

	code, out, errOut := runCLI(t, "-config", cfgPath, "-print-config")
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "workers: 3")
	assert.Contains(t, out, "points: 530")
}
