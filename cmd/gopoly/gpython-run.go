package main

import (
	"time"

	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	_ "github.com/2x3systems/gopoly/pypoly"
	_ "github.com/go-python/gpython/stdlib"
)

// Lines run in the interactive module before the first prompt.
const kREPLPrelude = "from _pypoly import *\n"

// runPython runs the script at pathname, or an interactive session when pathname is empty.
// The interpreter context is fully shut down before returning.
func runPython(pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	if pathname == "" {
		return runREPL(ctx)
	}
	return runScript(ctx, pathname)
}

func runREPL(ctx py.Context) error {
	session := repl.New(ctx)
	if _, err := py.RunSrc(ctx, kREPLPrelude, "<prelude>", session.Module); err != nil {
		return errors.Wrap(err, "REPL prelude")
	}
	cli.RunREPL(session)
	return nil
}

func runScript(ctx py.Context, pathname string) error {
	start := time.Now()
	klog.Infof("running %s", pathname)
	if _, err := py.RunFile(ctx, pathname, py.CompileOpts{}, nil); err != nil {
		py.TracebackDump(err)
		return errors.Wrapf(err, "running %s", pathname)
	}
	klog.Infof("%s finished in %v", pathname, time.Since(start))
	return nil
}
