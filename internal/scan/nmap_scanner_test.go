package scan

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript cria um executável sh que faz o papel do nmap.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("scripts sh não rodam no windows")
	}
	path := filepath.Join(t.TempDir(), "fake-nmap")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestInvoke_PassesTargetAsSingleArgument(t *testing.T) {
	path := writeScript(t, `printf '%s|%s\n' "$#" "$1"`)
	s := &NmapScanner{NmapPath: path}

	for _, target := range []string{"localhost", "10.0.0.1 -sV", "$(whoami); rm -rf /", ""} {
		res, err := s.Invoke(context.Background(), target)
		require.NoError(t, err, target)
		assert.Equal(t, "1|"+target+"\n", res.Output, target)
		assert.Empty(t, res.Error, target)
	}
}

func TestInvoke_NonZeroExitIsSuccess(t *testing.T) {
	path := writeScript(t, `echo "usage: nmap [Scan Type(s)] [Options] {target specification}" >&2; exit 255`)
	s := &NmapScanner{NmapPath: path}

	res, err := s.Invoke(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, res.Output)
	assert.Contains(t, res.Error, "usage: nmap")
}

func TestInvoke_StreamsAreCapturedSeparately(t *testing.T) {
	path := writeScript(t, `echo out; echo err >&2; echo out2`)
	s := &NmapScanner{NmapPath: path}

	res, err := s.Invoke(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "out\nout2\n", res.Output)
	assert.Equal(t, "err\n", res.Error)
}

func TestInvoke_InvalidBytesAreReplaced(t *testing.T) {
	path := writeScript(t, `printf 'ok\377\376\n'; printf 'bad\300' >&2`)
	s := &NmapScanner{NmapPath: path}

	res, err := s.Invoke(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(res.Output))
	assert.True(t, utf8.ValidString(res.Error))
	assert.True(t, strings.HasPrefix(res.Output, "ok�"))
	assert.True(t, strings.HasPrefix(res.Error, "bad�"))
}

func TestInvoke_MissingExecutable(t *testing.T) {
	s := &NmapScanner{NmapPath: filepath.Join(t.TempDir(), "nmap-que-nao-existe")}

	res, err := s.Invoke(context.Background(), "localhost")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.NotEmpty(t, err.Error())

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInvoke_NotFoundOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	s := &NmapScanner{}

	_, err := s.Invoke(context.Background(), "localhost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
	assert.Contains(t, err.Error(), DefaultNmapPath)
}

func TestInvoke_NotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permissões posix")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignora o bit de execução em alguns sistemas de arquivos")
	}
	path := filepath.Join(t.TempDir(), "nmap")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o644))
	s := &NmapScanner{NmapPath: path}

	_, err := s.Invoke(context.Background(), "localhost")
	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestInvoke_Timeout(t *testing.T) {
	path := writeScript(t, `exec sleep 10`)
	s := &NmapScanner{NmapPath: path, Timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := s.Invoke(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScanInterrupted))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestInvoke_CanceledContext(t *testing.T) {
	path := writeScript(t, `echo never`)
	s := &NmapScanner{NmapPath: path}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Invoke(ctx, "x")
	assert.True(t, errors.Is(err, ErrScanInterrupted))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInvoke_RealNmap(t *testing.T) {
	if testing.Short() {
		t.Skip("pulando nmap real em -short")
	}
	if _, err := exec.LookPath(DefaultNmapPath); err != nil {
		t.Skip("nmap não instalado")
	}
	s := &NmapScanner{}

	res, err := s.Invoke(context.Background(), "localhost")
	require.NoError(t, err)
	assert.Contains(t, res.Output, "Nmap")
}
