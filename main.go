package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/Digital-Shane/media-sort/internal/cmd"
	"github.com/Digital-Shane/media-sort/internal/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()
	if err == nil {
		return
	}

	var exit core.SilentExit
	if errors.As(err, &exit) {
		os.Exit(exit.Code)
	}
	fmt.Fprintf(os.Stderr, "mediasort: %v\n", err)
	os.Exit(1)
}
