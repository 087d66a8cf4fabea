package describe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/broady/fixture/cmd/fixture/internal/target"
	"github.com/broady/fixture/typeinfo"
)

type Cmd struct {
	Package string   `arg:"" help:"Package declaring the type (import path or directory)."`
	Type    string   `arg:"" help:"Type to describe, optionally instantiated (e.g. Page[int])."`
	Args    []string `help:"Type argument of the root type, in order. Repeatable." name:"arg" short:"a"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	return c.run(ctx, logger, os.Stdout)
}

func (c *Cmd) run(ctx context.Context, logger *slog.Logger, w io.Writer) error {
	reg := typeinfo.NewRegistry()
	d, err := target.Resolve(ctx, reg, c.Package, c.Type, c.Args)
	if err != nil {
		return err
	}
	logger.Debug("resolved type", "type", d.String(), "class", d.Raw().QualifiedName())

	fields, err := reg.Fields(d)
	if err != nil {
		return err
	}
	ctors, err := reg.Constructors(d)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, d)
	if values := d.Raw().Values; len(values) > 0 {
		fmt.Fprintln(tw, "values:")
		for _, v := range values {
			fmt.Fprintf(tw, "\t%#v\n", v)
		}
	}
	if len(fields) > 0 {
		fmt.Fprintln(tw, "fields:")
		for _, f := range fields {
			fmt.Fprintf(tw, "\t%s\t%s\n", f.Name, f.Type)
		}
	}
	if len(ctors) > 0 {
		fmt.Fprintln(tw, "constructors:")
		for _, ctor := range ctors {
			fmt.Fprintf(tw, "\t%s\t%s\n", signature(ctor), initializes(ctor))
		}
	}
	return tw.Flush()
}

func signature(c typeinfo.Constructor) string {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		if i < len(c.Names) && c.Names[i] != "" {
			params[i] = c.Names[i] + " " + p.String()
		} else {
			params[i] = p.String()
		}
	}
	return "(" + strings.Join(params, ", ") + ")"
}

func initializes(c typeinfo.Constructor) string {
	if c.FullyInitializes {
		return "fully initializes"
	}
	return "fields populated"
}
