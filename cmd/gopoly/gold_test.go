package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-python/gpython/py"
	"github.com/stretchr/testify/require"
)

func TestScripts(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join("testdata", "*.py"))
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	for _, pyFile := range scripts {
		t.Run(filepath.Base(pyFile), func(t *testing.T) {
			ctx := py.NewContext(py.DefaultContextOpts())
			redirect, err := RedirectToFile(filepath.Join(t.TempDir(), "stdout.txt"), ctx)
			require.NoError(t, err)

			_, err = py.RunFile(ctx, pyFile, py.CompileOpts{}, nil)
			if err != nil {
				py.TracebackDump(err)
			}
			require.NoError(t, err)

			ctx.Close()
			<-ctx.Done()
			require.NoError(t, redirect.Close())
		})
	}
}

func TestRunExpr(t *testing.T) {
	var out strings.Builder
	require.NoError(t, runExpr(&out, "aT", false))
	require.True(t, strings.HasPrefix(out.String(), `"aT",v=6,e=12,f=8,`), out.String())

	out.Reset()
	require.NoError(t, runExpr(&out, "C", true))
	dot := out.String()
	require.True(t, strings.HasPrefix(dot, "graph G{\nlayout=neato\n"))
	require.Equal(t, 12, strings.Count(dot, " -- "))

	require.Error(t, runExpr(&out, "xT", false))
}

type pyRedirect struct {
	file *os.File
}

// RedirectToFile points the script's sys.stdout at the given file.
func RedirectToFile(outputPathname string, ctx py.Context) (*pyRedirect, error) {
	ofile, err := os.OpenFile(outputPathname, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	sys := ctx.Store().MustGetModule("sys")
	sys.Globals["stdout"] = &py.File{
		File:     ofile,
		FileMode: py.FileWrite,
	}

	return &pyRedirect{
		file: ofile,
	}, nil
}

func (redir *pyRedirect) Close() error {
	return redir.file.Close()
}
