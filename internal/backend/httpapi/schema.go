package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

// schemaBase is the URL the embedded schemas are registered under so that
// relative $ref values resolve between them.
const schemaBase = "https://tasklist.local/schema/"

var (
	schemasOnce sync.Once
	schemaTask  *jsonschema.Schema
	schemaList  *jsonschema.Schema
)

func loadSchemas() {
	compiler := jsonschema.NewCompiler()
	for _, name := range []string{"task.json", "tasks.json"} {
		data, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			panic(fmt.Sprintf("read embedded schema %s: %v", name, err))
		}
		if err := compiler.AddResource(schemaBase+name, bytes.NewReader(data)); err != nil {
			panic(fmt.Sprintf("add schema %s: %v", name, err))
		}
	}
	schemaTask = compiler.MustCompile(schemaBase + "task.json")
	schemaList = compiler.MustCompile(schemaBase + "tasks.json")
}

func taskSchema() *jsonschema.Schema {
	schemasOnce.Do(loadSchemas)
	return schemaTask
}

func taskListSchema() *jsonschema.Schema {
	schemasOnce.Do(loadSchemas)
	return schemaList
}

// decodeValidated validates body against schema and then decodes it into dst.
func decodeValidated(body []byte, schema *jsonschema.Schema, dst any) error {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return schemaError(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// schemaError flattens a jsonschema.ValidationError into one line listing
// each failing location.
func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	var msgs []string
	collectSchemaErrors(ve, &msgs)
	if len(msgs) == 0 {
		return fmt.Errorf("schema: %s", ve.Message)
	}
	return fmt.Errorf("schema: %s", strings.Join(msgs, "; "))
}

func collectSchemaErrors(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, msgs)
	}
}
