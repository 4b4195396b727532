package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	OutputYAML OutputFormat = "yaml"
	OutputJSON OutputFormat = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Outputter prints command results and status lines.
type Outputter struct {
	format OutputFormat
	writer io.Writer
	errors io.Writer

	success *color.Color
	failure *color.Color
	info    *color.Color
}

// NewOutputter creates an outputter for the given format. Status lines are
// colored only when useColor is set.
func NewOutputter(format string, stdout, stderr io.Writer, useColor bool) *Outputter {
	o := &Outputter{
		format:  OutputFormat(format),
		writer:  stdout,
		errors:  stderr,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{o.success, o.failure, o.info} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return o
}

// PrintObject prints a single result in the configured format.
func (o *Outputter) PrintObject(obj interface{}) error {
	switch o.format {
	case OutputJSON:
		data, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintf(o.writer, "%s\n", data)
		return err
	case OutputYAML:
		encoder := yaml.NewEncoder(o.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(obj); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", o.format)
	}
}

// PrintProgress prints a line announcing what a command is about to do.
func (o *Outputter) PrintProgress(message string) {
	fmt.Fprintln(o.writer, message)
}

// PrintInfo prints an informational message
func (o *Outputter) PrintInfo(message string) {
	o.info.Fprintf(o.writer, "ℹ %s\n", message)
}

// PrintSuccess prints a success message
func (o *Outputter) PrintSuccess(message string) {
	o.success.Fprintf(o.writer, "✓ %s\n", message)
}

// PrintError prints an error message to the error stream
func (o *Outputter) PrintError(message string) {
	o.failure.Fprintf(o.errors, "✗ %s\n", message)
}
