// Package export renders the task collection in interchange formats for
// scripting and backups.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nhle/todo/internal/model"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, yaml or toml)", s)
	}
}

// record is the encoding-neutral shape of one task. Timestamps are written
// as RFC 3339 strings with millisecond precision so every format agrees.
type record struct {
	ID        int64  `json:"id" yaml:"id" toml:"id"`
	Text      string `json:"text" yaml:"text" toml:"text"`
	Completed bool   `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt string `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
}

// document wraps the records; TOML has no top-level arrays.
type document struct {
	Tasks []record `yaml:"tasks" toml:"tasks"`
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func toRecords(tasks []model.Task) []record {
	out := make([]record, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.UTC().Format(timestampLayout),
		})
	}
	return out
}

// Write encodes tasks to w. JSON output is a bare array matching the
// persisted layout; YAML and TOML wrap it in a "tasks" key.
func Write(w io.Writer, format Format, tasks []model.Task) error {
	records := toRecords(tasks)

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Tasks: records}); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(document{Tasks: records}); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	return nil
}

// Read decodes a document produced by Write. The format is required since
// the three encodings are not self-describing.
func Read(r io.Reader, format Format) ([]model.Task, error) {
	var records []record

	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case FormatYAML:
		var doc document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		records = doc.Tasks
	case FormatTOML:
		var doc document
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
		records = doc.Tasks
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}

	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		created, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("task %d: parsing createdAt: %w", rec.ID, err)
		}
		tasks = append(tasks, model.Task{
			ID:        rec.ID,
			Text:      rec.Text,
			Completed: rec.Completed,
			CreatedAt: created,
		})
	}
	return tasks, nil
}
