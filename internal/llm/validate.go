package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	eventsSchemaOnce sync.Once
	eventsSchema     *jsonschema.Schema
	eventsSchemaErr  error
)

// compiledEventsSchema compiles the events contract once; the schema never
// changes within a process.
func compiledEventsSchema() (*jsonschema.Schema, error) {
	eventsSchemaOnce.Do(func() {
		b, err := json.Marshal(BuildEventsJSONSchema())
		if err != nil {
			eventsSchemaErr = fmt.Errorf("marshal events schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("eventos.json", bytes.NewReader(b)); err != nil {
			eventsSchemaErr = fmt.Errorf("add events schema: %w", err)
			return
		}
		eventsSchema, eventsSchemaErr = compiler.Compile("eventos.json")
	})
	return eventsSchema, eventsSchemaErr
}

// ValidateEvents checks a fallback payload against the events contract
// before it is decoded into pay events.
func ValidateEvents(data []byte) error {
	schema, err := compiledEventsSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal events payload: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("events payload does not match contract: %w", err)
	}
	return nil
}
