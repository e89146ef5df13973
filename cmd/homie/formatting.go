package main

import (
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/homie/pkg/style"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// bold emphasizes usage headings when stdout is a color terminal
func bold(s string) string {
	if !style.ColorEnabled(os.Stdout) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func boldUpper(s string) string {
	return bold(strings.ToUpper(s))
}

// initTemplateFormatting registers the helpers the usage template calls
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      bold,
		"upper":     strings.ToUpper,
		"boldUpper": boldUpper,
	})
}
