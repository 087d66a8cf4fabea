package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/broady/fixture/cmd/fixture/internal/describe"
	"github.com/broady/fixture/cmd/fixture/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log debug records to stderr." short:"v"`

	Version  VersionCmd   `cmd:"" help:"Print version information."`
	Gen      gen.Cmd      `cmd:"" help:"Generate a fixture for a type declared in Go source."`
	Describe describe.Cmd `cmd:"" help:"Print the resolved fields and constructors of a type."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("fixture"),
		kong.Description("Generate seeded test fixtures for Go types."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := kctx.Run(logger)
	kctx.FatalIfErrorf(err)
}
