package cmd

import (
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v2"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// Formatter renders some data to a writer
type Formatter interface {
	Format(io.Writer, interface{}) error
}

// FormatterFunc is a function usable as a Formatter
type FormatterFunc func(io.Writer, interface{}) error

// Format data
func (f FormatterFunc) Format(w io.Writer, data interface{}) error {
	return f(w, data)
}

// tabular is implemented by data that knows how to render as a table
type tabular interface {
	table() *uitable.Table
}

func formatYAMLData(w io.Writer, data interface{}) error {
	return yaml.NewEncoder(w).Encode(data)
}

var formatters = map[string]Formatter{
	formatTable: FormatterFunc(func(w io.Writer, data interface{}) error {
		t, ok := data.(tabular)
		if !ok {
			return formatYAMLData(w, data)
		}
		_, err := io.WriteString(w, t.table().String()+"\n")
		return err
	}),
	formatJSON: FormatterFunc(func(w io.Writer, data interface{}) error {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}),
	formatYAML: FormatterFunc(formatYAMLData),
}

func formatNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatter() Formatter {
	f, ok := formatters[chunkmapFlags.core.format]
	if !ok {
		wrapFatalWithCodef(1, "unknown output format %q: expected one of %v", chunkmapFlags.core.format, formatNames())
		return formatters[formatYAML]
	}
	return f
}

func newTable(headers ...interface{}) *uitable.Table {
	t := uitable.New()
	t.MaxColWidth = 80
	t.Wrap = true
	for i := range headers {
		headers[i] = color.HiBlackString("%v", headers[i])
	}
	t.AddRow(headers...)
	return t
}
