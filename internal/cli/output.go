package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
)

// WriteOutput writes v as indented JSON, or as one JSON document per line
// with --jsonl (slices are split into one line per element).
func WriteOutput(out io.Writer, v any) error {
	if IsJSONLOutput() {
		encoder := json.NewEncoder(out)
		value := reflect.ValueOf(v)
		if value.Kind() == reflect.Slice {
			for i := 0; i < value.Len(); i++ {
				if err := encoder.Encode(value.Index(i).Interface()); err != nil {
					return fmt.Errorf("encode output: %w", err)
				}
			}
			return nil
		}
		return encoder.Encode(v)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func colorEnabled() bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return hasTTY()
}

func colorize(text, color string) string {
	if !colorEnabled() || color == "" {
		return text
	}
	return color + text + colorReset
}
