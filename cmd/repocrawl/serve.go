package main

import (
	"context"
	"fmt"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	deps.Server.Addr = c.Addr
	if err := deps.Server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	deps.Logger.Info("api server listening", "addr", c.Addr, "port", deps.Server.Port())

	<-deps.Ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	deps.Logger.Info("shutting down api server")
	return deps.Server.Close(ctx)
}
