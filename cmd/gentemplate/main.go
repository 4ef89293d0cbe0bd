// Command gentemplate writes the Word report template to disk so it can be restyled in an editor.
package main

import (
	"fmt"
	"os"

	"route-recon/internal/exporter/word"
)

func main() {
	out := "template.docx"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	data, err := word.Template()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build template: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Printf("Template written to %s\n", out)
}
