package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON string

const schemaURL = "tasks.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Schema returns the JSON Schema the task file is validated against.
func Schema() string {
	return schemaJSON
}

// Validate checks raw file content against the task file schema.
// It returns nil or a *CorruptStoreError without a path.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile task schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return &CorruptStoreError{Err: fmt.Errorf("parse json: %w", err)}
	}
	if dec.More() {
		return &CorruptStoreError{Err: fmt.Errorf("parse json: trailing data after document")}
	}
	if doc == nil {
		// "null" is an empty collection.
		return nil
	}

	if err := schema.Validate(doc); err != nil {
		problems := schemaProblems(err)
		return &CorruptStoreError{
			Problems: problems,
			Err:      fmt.Errorf("schema validation failed (%d problems)", len(problems)),
		}
	}
	return nil
}

func schemaProblems(err error) []string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]string, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		path := jsonPointerToPath(err.InstanceLocation)
		if path == "" {
			path = "(root)"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", path, err.Message))
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

// jsonPointerToPath converts a JSON Pointer to a readable path,
// e.g. "/0/Status" becomes "[0].Status".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
