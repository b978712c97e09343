package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berkotech.co/plotgrid/internal/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// execute runs the root command and returns stdout and the log output.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(strings.NewReader(stdin), &out, &logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

const smallConfig = "width = 3\nheight = 3\ndpi = 40\n"

func TestParsePlotSpec(t *testing.T) {
	tests := []struct {
		in   string
		want config.Plot
	}{
		{"data.csv", config.Plot{File: "data.csv"}},
		{"file=a.csv", config.Plot{File: "a.csv"}},
		{"name=Temp,file=a.csv,paired=true,style=scatter", config.Plot{Name: "Temp", File: "a.csv", Paired: true, Style: "scatter"}},
		{"file=a.csv, paired", config.Plot{File: "a.csv", Paired: true}},
		{"file=a.csv,paired=false,", config.Plot{File: "a.csv"}},
		{"name=Temp, inside,file=a.csv", config.Plot{Name: "Temp, inside", File: "a.csv"}},
		{"file=a,b.csv,name=x,y,z,paired", config.Plot{Name: "x,y,z", File: "a,b.csv", Paired: true}},
	}
	for _, tt := range tests {
		got, err := parsePlotSpec(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{
		"name=x",
		"file=a.csv,style=bar",
		"file=a.csv,paired=maybe",
		"file=a.csv,colour=red",
		"stray,file=a.csv",
	} {
		_, err := parsePlotSpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "plotgrid.toml", smallConfig)
	a := writeFile(t, dir, "a.csv", "x,y,z\n1,2,3\n2,3,4\n")
	b := writeFile(t, dir, "b.csv", "x1,y1,x2,y2\n1,2,3,4\n2,3,4,5\n")
	out := filepath.Join(dir, "grid.png")

	_, logs, err := execute(t, "", "render", "-c", cfg, "-o", out, a,
		"--plot", "name=Pairs,file="+b+",paired,style=scatter")
	require.NoError(t, err)
	assert.Contains(t, logs, "wrote grid")
	assert.Contains(t, logs, "Pairs")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.InDelta(t, 120, img.Bounds().Dx(), 1)
}

func TestRender_PlotsFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x,y\n1,2\n2,3\n")
	cfg := writeFile(t, dir, "plotgrid.yaml", `
width: 3
height: 3
dpi: 40
output: `+filepath.Join(dir, "grid.svg")+`
plots:
  - name: A
    file: a.csv
  - name: B
    file: a.csv
    style: scatter
`)

	_, _, err := execute(t, "", "render", "--config", cfg)
	require.NoError(t, err)

	svg, err := os.ReadFile(filepath.Join(dir, "grid.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "plotgrid.toml", smallConfig)
	out := filepath.Join(dir, "grid.png")

	_, _, err := execute(t, "", "render", "-c", cfg, "-o", out)
	assert.ErrorContains(t, err, "no plots")

	one := writeFile(t, dir, "one.csv", "x\n1\n2\n")
	_, _, err = execute(t, "", "render", "-c", cfg, "-o", out, one)
	assert.ErrorContains(t, err, "invalid table")

	_, _, err = execute(t, "", "render", "-c", cfg, "-o", out, filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, _, err = execute(t, "", "render", "-c", filepath.Join(dir, "nope.toml"), one)
	assert.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "failed renders must not write output")
}

func TestInteractive(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "plotgrid.toml", smallConfig)
	a := writeFile(t, dir, "a.csv", "x,y\n1,2\n2,3\n")
	bad := writeFile(t, dir, "bad.csv", "x\n1\n")
	out := filepath.Join(dir, "grid.png")

	stdin := strings.Join([]string{
		a, "First", "no", "line",
		filepath.Join(dir, "missing.csv"), "Missing", "", "",
		bad, "Bad", "", "",
		a, "Second", "yes", "scatter",
	}, "\n") + "\n"

	stdout, logs, err := execute(t, stdin, "interactive", "-c", cfg, "-o", out)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Enter a title for the plot")
	assert.Contains(t, logs, "could not load table")
	assert.Contains(t, logs, "could not add plot")
	assert.Contains(t, logs, "plots=2")

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	SetVersion("v1.2.3", "abc123", "2026-01-02")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "plotgrid v1.2.3")
	assert.Contains(t, out, "commit: abc123")
}

func TestVerboseFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "plotgrid.toml", smallConfig)
	a := writeFile(t, dir, "a.csv", "x,y,z\n1,2,3\n")

	_, logs, err := execute(t, "", "render", "-v", "-c", cfg, "-o", filepath.Join(dir, "g.png"),
		"--plot", "file="+a+",paired")
	require.NoError(t, err)
	assert.Contains(t, logs, "dropping unpaired column")
}
