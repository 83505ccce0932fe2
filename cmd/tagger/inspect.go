package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dwoolworth/tagger"
	"github.com/dwoolworth/tagger/internal"
	"github.com/dwoolworth/tagger/models"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect entity schemas",
	Long:  "Display every entity with its collection, HTTP resource, fields, defaults and references.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := models.Register(cfg.Mongo.Collections); err != nil {
			return err
		}

		schemas := tagger.GetAll()
		names := make([]string, 0, len(schemas))
		for name := range schemas {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			printSchema(out, schemas[name])
			fmt.Fprintln(out)
		}
		return nil
	},
}

func printSchema(w io.Writer, schema *tagger.Schema) {
	fmt.Fprintf(w, "%s (collection: %s, resource: /api/%s)\n",
		schema.ModelName, schema.Collection, internal.ResourceName(schema.ModelName))

	for i, field := range schema.Fields {
		connector := "├──"
		if i == len(schema.Fields)-1 {
			connector = "└──"
		}

		refStr := ""
		if field.Ref != "" {
			refStr = " → " + refTarget(field.Ref)
		}

		fmt.Fprintf(w, "  %s %-18s %-12s %s%s\n", connector, field.JSONName, field.Type, formatFieldAttrs(field), refStr)
	}
}

func formatFieldAttrs(f tagger.FieldSchema) string {
	var parts []string
	if f.BSONName != f.JSONName {
		parts = append(parts, "bson: "+f.BSONName)
	}
	if f.Index {
		parts = append(parts, "index")
	}
	if f.Default != "" {
		parts = append(parts, "default: "+f.Default)
	}
	return strings.Join(parts, ", ")
}

// refTarget names the collection a reference points into, or the bare model
// name when that model is not registered.
func refTarget(model string) string {
	if s, ok := tagger.Get(model); ok {
		return s.Collection + "._id"
	}
	return model
}
