package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nhle/todo/internal/model"
)

// tasksSchemaURL identifies the embedded schema inside the compiler.
const tasksSchemaURL = "todo://tasks.schema.json"

// tasksSchema describes the persisted collection: an array of task objects.
// createdAt accepts any RFC 3339 timestamp, including the millisecond form
// browsers produce.
const tasksSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed", "createdAt"],
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string"},
      "completed": {"type": "boolean"},
      "createdAt": {"type": "string", "format": "date-time"}
    }
  }
}`

var compiledTasksSchema = mustCompileTasksSchema()

func mustCompileTasksSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(tasksSchemaURL, strings.NewReader(tasksSchema)); err != nil {
		panic(fmt.Sprintf("adding tasks schema: %v", err))
	}
	return compiler.MustCompile(tasksSchemaURL)
}

// ErrDuplicateID marks persisted data that repeats a task id.
var ErrDuplicateID = errors.New("duplicate task id")

// EncodeTasks serializes the full collection. A nil collection is written
// as an empty array.
func EncodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encoding tasks: %w", err)
	}
	return data, nil
}

// DecodeTasks parses and validates a serialized collection.
func DecodeTasks(data []byte) ([]model.Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing tasks: %w", err)
	}
	if err := compiledTasksSchema.Validate(doc); err != nil {
		return nil, flattenSchemaError(err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}

	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("task %d: %w", t.ID, ErrDuplicateID)
		}
		seen[t.ID] = true
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// flattenSchemaError joins the leaf causes of a schema failure into one
// readable error.
func flattenSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating tasks: %w", err)
	}

	var msgs []string
	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			collect(c)
		}
	}
	collect(ve)

	return fmt.Errorf("validating tasks: %s", strings.Join(msgs, "; "))
}
