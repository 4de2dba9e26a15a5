package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/2x3systems/gopoly/libpoly/conway"
	"github.com/plan-systems/klog"
)

func main() {
	fset := flag.CommandLine
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	expr := fset.String("expr", "", "Conway expression to evaluate and print, e.g. \"atT\"")
	dot := fset.Bool("dot", false, "with -expr, print the Graphviz description instead")

	flag.Parse()

	var err error
	if len(*expr) > 0 {
		err = runExpr(os.Stdout, *expr, *dot)
	} else {
		err = runPython(flag.Arg(0))
	}

	status := 0
	if err != nil {
		klog.Errorf("%v", err)
		status = 1
	}

	klog.Flush()
	os.Exit(status)
}

// runExpr evaluates expr and writes either its snapshot line or its Graphviz description to out.
func runExpr(out io.Writer, expr string, dot bool) error {
	X, err := conway.Eval(expr)
	if err != nil {
		return err
	}
	if dot {
		X.Distance.WriteGraphviz(out)
	} else {
		opts := gopoly.DefaultPrintOpts
		opts.Degrees = true
		X.Snapshot(expr).WriteAsString(out, opts)
	}
	fmt.Fprintln(out)
	return nil
}
