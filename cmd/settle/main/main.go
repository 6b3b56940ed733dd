package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/settle/cmd/settle"
	"github.com/arthur-debert/settle/pkg/ui/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := settle.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var exitErr *settle.ExitError
	if errors.As(err, &exitErr) {
		stop()
		os.Exit(exitErr.Code)
	}

	fmt.Fprintln(os.Stderr, styles.Default().Render("Error", fmt.Sprintf("Error: %v", err)))
	stop()
	os.Exit(1)
}
