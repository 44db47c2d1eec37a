package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// printTable writes rows as an aligned table under headers.
func printTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// printFields writes label/value pairs, one per line.
func printFields(w io.Writer, fields [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, field := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", field[0], field[1])
	}

	return tw.Flush()
}

// emit prints v as JSON or renders it with the table function.
func (a *app) emit(w io.Writer, v any, table func() error) error {
	if a.jsonOutput {
		return printJSON(w, v)
	}

	return table()
}
