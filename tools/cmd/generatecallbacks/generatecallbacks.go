// Command generatecallbacks writes client_callbacks.go from the command types in commands.go
// and the handle<Type> methods of the client in client.go.
//
// A handler returning bool runs before the callbacks and can stop them, a handler returning error runs after them.
package main

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

var (
	tmpl = template.Must(template.New("callbacks").Funcs(template.FuncMap{
		"hasPreHandler":  hasPreHandler,
		"hasPostHandler": hasPostHandler,
	}).Parse(`// Code generated by tools/cmd/generatecallbacks. DO NOT EDIT.

package twitch

// EventHandler holds the callbacks for every command type
type EventHandler struct {
{{- range . }}
	on{{.}} []func(message Message, command {{.}})
{{- end }}
}

func (e *Client) handleMessage(message *Message) (err error) {
	switch command := message.Command.(type) {
{{- range . }}
	case *{{.}}:
		{{- if hasPreHandler . }}
		if !e.handle{{.}}(*message, *command) {
			return nil
		}
		{{ end }}
		for _, cb := range e.on{{.}} {
			cb(*message, *command)
		}
		{{- if hasPostHandler . }}

		err = e.handle{{.}}(*message, *command)
		{{- end }}
{{ end }}
	}

	return
}
{{ range . }}
// On{{ . }} attach callback to {{ . }} messages
func (e *EventHandler) On{{.}}(cb func(message Message, command {{.}})) {
	e.on{{.}} = append(e.on{{.}}, cb)
}
{{ end }}`))
)

// readCommandTypes returns the struct types embedding baseCommand
func readCommandTypes(path string) []string {
	fs := token.NewFileSet()
	parsedFile, err := parser.ParseFile(fs, path, nil, 0)
	if err != nil {
		log.Fatalf("could not parse %s: %s", path, err)
	}

	names := []string{}
	for _, decl := range parsedFile.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok || !typeSpec.Name.IsExported() {
				continue
			}

			for _, field := range structType.Fields.List {
				if ident, ok := field.Type.(*ast.Ident); ok && len(field.Names) == 0 && ident.Name == "baseCommand" {
					names = append(names, typeSpec.Name.Name)
					break
				}
			}
		}
	}

	sort.Strings(names)

	return names
}

var preHandlers []string
var postHandlers []string

// readHandlers collects handle<Type>(Message, <Type>) methods and sorts them by their result type
func readHandlers(path string) {
	fs := token.NewFileSet()
	parsedFile, err := parser.ParseFile(fs, path, nil, 0)
	if err != nil {
		log.Fatalf("could not parse %s: %s", path, err)
	}

	for _, decl := range parsedFile.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Recv == nil || !strings.HasPrefix(funcDecl.Name.Name, "handle") {
			continue
		}

		if funcDecl.Type.Results == nil || len(funcDecl.Type.Results.List) != 1 {
			continue
		}

		params := funcDecl.Type.Params.List
		if len(params) != 2 {
			continue
		}

		commandType, ok := params[1].Type.(*ast.Ident)
		if !ok || funcDecl.Name.Name != "handle"+commandType.Name {
			continue
		}

		returnType, ok := funcDecl.Type.Results.List[0].Type.(*ast.Ident)
		if !ok {
			continue
		}

		switch returnType.Name {
		case "bool":
			preHandlers = append(preHandlers, commandType.Name)
		case "error":
			postHandlers = append(postHandlers, commandType.Name)
		}
	}
}

func main() {
	var buf bytes.Buffer
	dir := "../../.."

	names := readCommandTypes(filepath.Join(dir, "commands.go"))
	readHandlers(filepath.Join(dir, "client.go"))

	if err := tmpl.Execute(&buf, names); err != nil {
		log.Fatalf("executing template: %s", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		log.Println("warning: internal error: invalid Go generated:", err)
		src = buf.Bytes()
	}

	err = os.WriteFile(filepath.Join(dir, "client_callbacks.go"), src, 0644)
	if err != nil {
		log.Fatalf("writing output: %s", err)
	}
}

func hasPreHandler(name string) bool {
	for _, handler := range preHandlers {
		if handler == name {
			return true
		}
	}
	return false
}

func hasPostHandler(name string) bool {
	for _, handler := range postHandlers {
		if handler == name {
			return true
		}
	}
	return false
}
