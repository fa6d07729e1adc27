package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.followtheprocess.codes/haml/internal/cmd"
	"go.followtheprocess.codes/haml/internal/haml"
	"go.followtheprocess.codes/msg"

	_ "github.com/tliron/commonlog/simple" // Backend for the language server logs
)

func main() {
	if err := run(); err != nil {
		// Diagnostics have already been shown
		if !errors.Is(err, haml.ErrInvalid) {
			msg.Error("%v", err)
		}

		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli, err := cmd.Build()
	if err != nil {
		return err
	}

	return cli.Execute(ctx)
}
