// Package queryparser loads GraphQL schema and query documents from the
// filesystem and parses them with gqlparser. Parsing and validation are
// entirely delegated to gqlparser; this package only resolves globs and
// assembles sources.
package queryparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// LoadSchema reads the SDL files matching the given globs and returns the
// parsed, validated schema.
func LoadSchema(globs []string) (*ast.Schema, error) {
	sources, err := LoadSources(globs)
	if err != nil {
		return nil, fmt.Errorf("load schema sources failed: %w", err)
	}

	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("parse schema failed: %w", err)
	}

	return schema, nil
}

// LoadSources reads every file matching the given globs, in glob order.
// A glob matching no file is an error.
func LoadSources(globs []string) ([]*ast.Source, error) {
	var sources []*ast.Source
	for _, glob := range globs {
		matches, err := filepath.Glob(glob)
		if err != nil {
			return nil, fmt.Errorf("malformed glob %q: %w", glob, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no file matches %q", glob)
		}

		for _, filename := range matches {
			content, err := os.ReadFile(filename)
			if err != nil {
				return nil, fmt.Errorf("unable to read %q: %w", filename, err)
			}
			sources = append(sources, &ast.Source{Name: filename, Input: string(content)})
		}
	}

	return sources, nil
}

// QueryDocument parses the query sources and validates them against schema.
func QueryDocument(schema *ast.Schema, sources []*ast.Source) (*ast.QueryDocument, error) {
	var query strings.Builder
	for _, source := range sources {
		query.WriteString(source.Input)
		query.WriteString("\n")
	}

	doc, errs := gqlparser.LoadQuery(schema, query.String())
	if len(errs) > 0 {
		return nil, fmt.Errorf("parse query failed: %w", errs)
	}

	return doc, nil
}

// FragmentMap builds the fragment-name lookup consumed by codegen.Context.
func FragmentMap(doc *ast.QueryDocument) map[string]*ast.FragmentDefinition {
	fragments := make(map[string]*ast.FragmentDefinition, len(doc.Fragments))
	for _, fragment := range doc.Fragments {
		fragments[fragment.Name] = fragment
	}

	return fragments
}
