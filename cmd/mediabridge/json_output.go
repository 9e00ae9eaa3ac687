package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	return encodeJSON(cmd.OutOrStdout(), v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit writes v as JSON when asJSON is set and otherwise calls render.
func emit(cmd *cobra.Command, asJSON bool, v any, render func(io.Writer) error) error {
	if asJSON {
		return writeJSON(cmd, v)
	}
	return render(cmd.OutOrStdout())
}
