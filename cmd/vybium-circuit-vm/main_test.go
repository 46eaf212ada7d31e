package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/testutil"
)

const incrementProgram = "input r0 as u8;\nadd.w r0 1u8 into r1;\noutput r1 as u8;\n"

// cli runs one command line as a separate invocation would
func cli(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	ow, ew := bufio.NewWriter(&out), bufio.NewWriter(&errOut)
	argv := append([]string{"vybium-circuit-vm"}, args...)
	code = execute(testutil.Context(t), argv, bufio.NewReader(strings.NewReader("")), ow, ew)
	require.NoError(t, ow.Flush())
	require.NoError(t, ew.Flush())
	return out.String(), errOut.String(), code
}

func writeProgram(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "program.vm")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	src := writeProgram(t, dir, incrementProgram)
	db := filepath.Join(dir, "programs.db")

	out, errOut, code := cli(t, "run", "--db", db, "--f", src, "--in", "255u8")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "0u8\n", out)

	_, errOut, code = cli(t, "run", "--db", db, "--f", src, "--in", "1i8")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, errOut)
}

func TestRunHalted(t *testing.T) {
	dir := t.TempDir()
	src := writeProgram(t, dir, "input r0 as u8;\nadd.w r0 1i8 into r1;\noutput r1 as u8;\n")

	_, errOut, code := cli(t, "run", "--db", filepath.Join(dir, "programs.db"), "--f", src, "--in", "1u8")
	assert.Equal(t, exitHalted, code)
	assert.Contains(t, errOut, "program halted")
}

func TestStoreAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	src := writeProgram(t, dir, incrementProgram)
	db := filepath.Join(dir, "programs.db")

	out, errOut, code := cli(t, "store", "put", "--db", db, "--f", src)
	require.Equal(t, 0, code, errOut)
	digest := strings.TrimSpace(out)
	require.NotEmpty(t, digest)

	out, errOut, code = cli(t, "store", "list", "--db", db)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, digest+"\t1\n")

	out, errOut, code = cli(t, "store", "get", "--db", db, digest)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "add.w r0 1u8 into r1;")
}

func TestDefaultStoreIsAFile(t *testing.T) {
	dir := t.TempDir()
	src := writeProgram(t, dir, incrementProgram)
	t.Chdir(dir)

	out, errOut, code := cli(t, "store", "put", "--f", src)
	require.Equal(t, 0, code, errOut)
	digest := strings.TrimSpace(out)
	assert.FileExists(t, filepath.Join(dir, defaultDB))

	out, errOut, code = cli(t, "store", "list")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, digest)
}
