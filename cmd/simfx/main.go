// Command simfx drives the simulation engine from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp(os.Stdout)
	err := a.execute(ctx, a.rootCmd())
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "simfx:", err)
		os.Exit(1)
	}
}
