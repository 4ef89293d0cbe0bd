package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"route-recon/internal/model"
)

var methodColors = map[string]*color.Color{
	"GET":    color.New(color.FgGreen, color.Bold),
	"POST":   color.New(color.FgBlue, color.Bold),
	"PUT":    color.New(color.FgYellow, color.Bold),
	"PATCH":  color.New(color.FgCyan, color.Bold),
	"DELETE": color.New(color.FgRed, color.Bold),
}

var dim = color.New(color.Faint)

// printEndpoints writes one line per endpoint in emission order, followed by diagnostics
func printEndpoints(w io.Writer, inv *model.Inventory) {
	fmt.Fprintf(w, "\nEndpoints (%s, %d):\n", inv.Convention, len(inv.Endpoints))
	for _, ep := range inv.Endpoints {
		method := fmt.Sprintf("%-7s", ep.Method)
		if c, ok := methodColors[ep.Method]; ok {
			method = c.Sprint(method)
		}
		fmt.Fprintf(w, "  • %s %-40s → %s\n", method, ep.Path, ep.HandlerName)
	}

	if len(inv.Diagnostics) > 0 {
		fmt.Fprintf(w, "\nDiagnostics (%d):\n", len(inv.Diagnostics))
		for _, d := range inv.Diagnostics {
			fmt.Fprintf(w, "  %s\n", dim.Sprint(d.String()))
		}
	}
	fmt.Fprintln(w)
}
