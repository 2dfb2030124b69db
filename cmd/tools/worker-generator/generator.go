// cmd/tools/worker-generator/generator.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"rentcheck-workers/pkg/registry"
)

// WorkerData is the template context for one generated worker.
type WorkerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Description  string
	Category     string
	Timeout      string
	InputFields  string
	OutputFields string
	ErrorCodes   []ErrorCode
}

// ErrorCode is a registry error code with its sentinel variable name.
type ErrorCode struct {
	Code string
	Var  string
}

func newWorkerData(activity *registry.Activity) WorkerData {
	data := WorkerData{
		Name:         activity.DisplayName,
		PackageName:  packageName(activity.TaskType),
		TaskType:     activity.TaskType,
		Description:  activity.Description,
		Category:     activity.Category,
		Timeout:      activity.Timeout,
		InputFields:  generateStructFields(activity.InputSchema),
		OutputFields: generateStructFields(activity.OutputSchema),
	}
	if data.Timeout == "" {
		data.Timeout = "10s"
	}

	codes := append([]string{"INVALID_INPUT"}, activity.ErrorCodes...)
	seen := make(map[string]bool)
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		data.ErrorCodes = append(data.ErrorCodes, ErrorCode{Code: code, Var: "Err" + camelFromConstant(code)})
	}
	return data
}

func packageName(taskType string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "", ".", "").Replace(taskType))
}

// camelFromConstant turns PROFILE_NOT_FOUND into ProfileNotFound.
func camelFromConstant(code string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.ToLower(code), "_") {
		b.WriteString(upperFirst(part))
	}
	return b.String()
}

func parseSchema(schema map[string]interface{}) map[string]interface{} {
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		return props
	}
	return map[string]interface{}{}
}

func goTypeFromJSONType(details map[string]interface{}) string {
	switch details["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			if elem := goTypeFromJSONType(items); elem != "interface{}" {
				return "[]" + elem
			}
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// generateStructFields renders the schema properties as struct fields in
// name order. Properties outside "required" get omitempty.
func generateStructFields(schema map[string]interface{}) string {
	properties := parseSchema(schema)
	required := make(map[string]bool)
	if list, ok := schema["required"].([]interface{}); ok {
		for _, name := range list {
			if s, ok := name.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []string
	for _, name := range names {
		details, ok := properties[name].(map[string]interface{})
		if !ok {
			continue
		}
		tag := name
		if !required[name] {
			tag += ",omitempty"
		}
		field := fmt.Sprintf("\t%s %s `json:\"%s\"`", fieldName(name), goTypeFromJSONType(details), tag)
		if desc, ok := details["description"].(string); ok && desc != "" {
			field += " // " + desc
		}
		fields = append(fields, field)
	}
	return strings.Join(fields, "\n")
}

func fieldName(prop string) string {
	name := upperFirst(prop)
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var files = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

// Render executes every template for data and gofmts the Go sources.
func Render(data WorkerData) (map[string][]byte, error) {
	out := make(map[string][]byte, len(files))
	for filename, tmplStr := range files {
		tmpl, err := template.New(filename).Parse(tmplStr)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", filename, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute template %s: %w", filename, err)
		}

		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", filename, err)
		}
		out[filename] = src
	}
	return out, nil
}

// Generate writes the scaffold for activity under outputDir/<category>/<taskType>.
// Existing files are left alone unless force is set.
func Generate(activity *registry.Activity, outputDir string, force bool) ([]string, error) {
	data := newWorkerData(activity)
	rendered, err := Render(data)
	if err != nil {
		return nil, err
	}

	workerDir := filepath.Join(outputDir, strings.ToLower(activity.Category), activity.TaskType)
	if err := os.MkdirAll(workerDir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	names := make([]string, 0, len(rendered))
	for name := range rendered {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(workerDir, name)
		if _, err := os.Stat(path); err == nil && !force {
			continue
		}
		if err := os.WriteFile(path, rendered[name], 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
