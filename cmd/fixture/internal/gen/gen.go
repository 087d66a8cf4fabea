package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/broady/fixture"
	"github.com/broady/fixture/cmd/fixture/internal/target"
)

type Cmd struct {
	Package       string   `arg:"" help:"Package declaring the type (import path or directory)."`
	Type          string   `arg:"" help:"Type to generate, optionally instantiated (e.g. Page[int])."`
	Args          []string `help:"Type argument of the root type, in order. Repeatable." name:"arg" short:"a"`
	Seed          int64    `help:"Root seed." short:"s" xor:"seed"`
	Random        bool     `help:"Draw a random root seed and log it." short:"r" xor:"seed"`
	Format        string   `help:"Output format." enum:"json,yaml" default:"json" short:"f"`
	IgnoreCycles  bool     `help:"Leave cyclic references empty instead of failing."`
	IgnoreNoValue bool     `help:"Leave values no strategy can produce empty instead of failing."`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	return c.run(ctx, logger, os.Stdout)
}

func (c *Cmd) run(ctx context.Context, logger *slog.Logger, w io.Writer) error {
	g := fixture.New().
		WithLogger(logger).
		WithIgnoreCyclicReferences(c.IgnoreCycles).
		WithIgnoreNoValue(c.IgnoreNoValue)

	d, err := target.Resolve(ctx, g.Registry(), c.Package, c.Type, c.Args)
	if err != nil {
		return err
	}

	seed := c.Seed
	if c.Random {
		seed = rand.Int64()
		logger.Info("random seed", "seed", seed)
	}

	v, err := g.CreateDescriptor(d, seed)
	if err != nil {
		return err
	}
	return encode(w, c.Format, v)
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
