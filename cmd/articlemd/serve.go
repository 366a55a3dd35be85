package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	articlehttp "github.com/awitkowski/articlemd/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := articlehttp.NewServer(deps.Parser, deps.Fetcher, deps.Logger)

	httpServer := &http.Server{
		Addr:              c.Addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-deps.Ctx.Done()
		_ = httpServer.Close()
	}()

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", c.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
