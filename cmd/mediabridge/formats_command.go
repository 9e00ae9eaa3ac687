package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mediabridge/internal/formats"
)

func newFormatsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:         "formats",
		Short:       "List supported output formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			table := formats.Enumerate()
			return emit(cmd, asJSON, table, func(w io.Writer) error {
				_, err := fmt.Fprint(w, renderFormats(table))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the format table as JSON")
	return cmd
}

func renderFormats(table formats.Table) string {
	title := cases.Title(language.English)
	lists := map[formats.Category][]string{
		formats.CategoryVideo: table.Formats.Video,
		formats.CategoryAudio: table.Formats.Audio,
		formats.CategoryImage: table.Formats.Image,
	}
	rows := make([][]string, 0, len(lists))
	for _, category := range formats.Categories() {
		names := lists[category]
		rows = append(rows, []string{
			title.String(string(category)),
			strconv.Itoa(len(names)),
			strings.Join(names, ", "),
		})
	}
	return renderTable(tableView{
		Title:   "Supported formats",
		Headers: []string{"Category", "Count", "Formats"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
	})
}
