package main

import (
	"io"
	"net"

	"github.com/fatih/color"

	"github.com/angeloszaimis/devserver/internal/healthcheck"
)

func printProbeSummary(w io.Writer, result healthcheck.Result) {
	if result.OK {
		color.New(color.FgGreen).Fprintln(w, "Backend healthy. Chat should connect to the remote store.")
		return
	}

	color.New(color.FgYellow).Fprintf(w,
		"Backend unavailable (%s). The frontend will use the local chat fallback.\n", result.Reason)
}

func printServing(w io.Writer, root, addr string) {
	port := addr
	if _, p, err := net.SplitHostPort(addr); err == nil {
		port = p
	}

	color.New(color.FgCyan).Fprintf(w, "Serving %s at http://localhost:%s/  (Ctrl+C to stop)\n", root, port)
}
