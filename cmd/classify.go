package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/contexts"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	classifyAlias  string
	classifyType   string
	classifyFormat string
	classifyEvent  bool
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <file|->",
	Short: "Classify a single context blob",
	Long: `Read one context blob as JSON from a file (or - for stdin) and print the
card it classifies into: canonical type, title, icon, entries and summary.

With --event the input is a whole event instead, and every context in it is
classified.

Examples:
  echo '{"name":"iOS","version":"17.2"}' | event-contexts classify --alias os -
  event-contexts classify --alias gpu --format yaml gpu.json
  event-contexts classify --event event.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if classifyFormat != "json" && classifyFormat != "yaml" {
			return fmt.Errorf("unsupported format: %s (supported: json, yaml)", classifyFormat)
		}

		data, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var result any
		if classifyEvent {
			event, err := internal.ParseEvent(data, args[0], "")
			if err != nil {
				return err
			}
			report, err := cfg.NewNormalizer().NormalizeEvent(event, args[0])
			if err != nil {
				return err
			}
			result = report
		} else {
			card, err := classifyBlob(cfg, data, args[0])
			if err != nil {
				return err
			}
			result = card
		}

		return writeStructured(cmd.OutOrStdout(), classifyFormat, result)
	},
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, &internal.StorageError{Path: "stdin", Op: "read", Err: err}
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &internal.StorageError{Path: path, Op: "read", Err: err}
	}
	return data, nil
}

func classifyBlob(cfg *internal.Config, data []byte, source string) (contexts.Card, error) {
	value, err := contexts.Parse(data)
	if err != nil {
		return contexts.Card{}, &internal.ParseError{Source: source, Err: err}
	}
	if value.Kind() != contexts.KindObject {
		return contexts.Card{}, &internal.ParseError{Source: source, Err: fmt.Errorf("context must be a JSON object, got %s", value.Kind())}
	}

	typ := classifyType
	if typ == "" {
		typ, _ = value.Get("type").Str()
	}
	alias := classifyAlias
	if alias == "" {
		alias = typ
	}
	if alias == "" {
		return contexts.Card{}, fmt.Errorf("cannot tell what context this is: pass --alias or --type, or include a \"type\" key")
	}

	n := cfg.NewNormalizer()
	fc := contexts.FormatContext{
		Organization: n.Organization,
		Project:      n.Project,
		Location:     n.Location,
	}
	return contexts.BuildCard(contexts.Item{Alias: alias, Type: typ, Value: value}, fc, n.Catalog), nil
}

func writeStructured(out io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&classifyAlias, "alias", "", "Key the context is attached under (defaults to its type)")
	classifyCmd.Flags().StringVar(&classifyType, "type", "", "Declared context type (defaults to the blob's \"type\" key)")
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "json", "Output format (json, yaml)")
	classifyCmd.Flags().BoolVar(&classifyEvent, "event", false, "Input is a whole event rather than one context")
}
