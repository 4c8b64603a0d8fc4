package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/todolist/internal/model"
)

// Older blobs may lack id or priority; both get filled in on load.
const itemsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "completed"],
    "properties": {
      "id":        {"type": "string", "minLength": 1},
      "text":      {"type": "string", "pattern": "\\S"},
      "completed": {"type": "boolean"},
      "dueDate":   {"type": ["string", "null"]},
      "priority":  {"enum": ["Low", "Medium", "High", null]}
    }
  }
}`

var schema = jsonschema.MustCompileString("todos.schema.json", itemsSchema)

func serialize(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Deserialize decodes a blob produced by Serialize. Any failure comes back
// as *CorruptDataError. Records without an id receive a fresh one from newID.
func Deserialize(data []byte) ([]model.Item, error) {
	return deserialize(data, newULID)
}

func deserialize(data []byte, newID func() string) ([]model.Item, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, &CorruptDataError{Err: fmt.Errorf("json decode: %w", err)}
	}
	if dec.More() {
		return nil, &CorruptDataError{Err: fmt.Errorf("trailing data after array")}
	}
	if err := schema.Validate(raw); err != nil {
		return nil, &CorruptDataError{Err: schemaError(err)}
	}

	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &CorruptDataError{Err: fmt.Errorf("json unmarshal: %w", err)}
	}
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = newID()
		}
		if _, dup := seen[it.ID]; dup {
			return nil, &CorruptDataError{Err: fmt.Errorf("duplicate id %q", it.ID)}
		}
		seen[it.ID] = struct{}{}
		if it.Priority == "" {
			it.Priority = model.Medium
		}
		if it.DueDate != nil {
			it.DueDate = model.DuePtr(*it.DueDate)
		}
		it.Text = strings.TrimSpace(it.Text)
		if it.Text == "" {
			return nil, &CorruptDataError{Err: fmt.Errorf("empty text at %d", i)}
		}
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// schemaError reduces a schema failure to its first leaf cause.
func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Errorf("%s: %s", loc, ve.Message)
}
