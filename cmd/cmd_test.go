package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempSource(t *testing.T, source string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.lang")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRunCompileWritesAssemblyToStdoutByDefault(t *testing.T) {
	outputPath = "-"
	path := writeTempSource(t, "return 42\n")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	runErr := runCompile(compileCmd, []string{path})
	w.Close()
	require.NoError(t, runErr)

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	out := string(buf[:n])

	assert.Contains(t, out, ".global main")
	assert.Contains(t, out, "mov $42, %eax")
}

func TestRunCompileWritesAssemblyToFile(t *testing.T) {
	path := writeTempSource(t, "return 1\n")
	dir := filepath.Dir(path)
	dest := filepath.Join(dir, "out.s")
	outputPath = dest
	defer func() { outputPath = "-" }()

	require.NoError(t, runCompile(compileCmd, []string{path}))

	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "main:")
}

func TestRunCompileReportsParseErrorsAsDiag(t *testing.T) {
	outputPath = "-"
	path := writeTempSource(t, "a = undeclared_variable\n")

	err := runCompile(compileCmd, []string{path})
	require.Error(t, err)
}

func TestRunCompileRejectsMissingFile(t *testing.T) {
	outputPath = "-"
	err := runCompile(compileCmd, []string{filepath.Join(t.TempDir(), "missing.lang")})
	require.Error(t, err)
}

func TestRunDumpASTPrintsProgramNode(t *testing.T) {
	outputPath = "-"
	path := writeTempSource(t, "return 1\n")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	runErr := runDumpAST(dumpASTCmd, []string{path})
	w.Close()
	require.NoError(t, runErr)

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	out := string(buf[:n])
	assert.Contains(t, out, "Program")
}

func TestRunInterpretAlwaysFails(t *testing.T) {
	path := writeTempSource(t, "return 1\n")
	err := runInterpret(interpretCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not implemented")
}
