package propertygen

import (
	"fmt"
	"strings"

	"github.com/ettle/strcase"

	"github.com/gqlgo/gqlc/codegen"
)

// CodeFormatter formats generated code
type CodeFormatter struct{}

// NewCodeFormatter creates a new CodeFormatter
func NewCodeFormatter() *CodeFormatter {
	return &CodeFormatter{}
}

// FormatStructDecl formats a struct type declaration from selection
// properties, followed by a getter per field.
func (f *CodeFormatter) FormatStructDecl(typeName string, properties []*codegen.Property) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("type %s struct {\n", typeName))
	for _, property := range properties {
		if property == nil {
			continue
		}
		if property.Fragment != nil {
			// fragment spread は埋め込みで表現する
			buf.WriteString(fmt.Sprintf("\t%s `json:\"-\"`\n", property.TypeName))
			continue
		}
		buf.WriteString(fmt.Sprintf("\t%s %s `json:%q`\n", fieldName(property), property.TypeName, jsonTag(property)))
	}
	buf.WriteString("}\n")

	for _, property := range properties {
		if property == nil || property.Fragment != nil {
			continue
		}
		buf.WriteString(f.FormatGetter(typeName, fieldName(property), property.TypeName))
	}

	return buf.String()
}

// FormatGetter formats a getter method
func (f *CodeFormatter) FormatGetter(typeName, fieldName, fieldType string) string {
	return fmt.Sprintf(`func (t *%s) Get%s() %s {
	if t == nil {
		t = &%s{}
	}
	return t.%s
}
`, typeName, fieldName, fieldType, typeName, fieldName)
}

func fieldName(property *codegen.Property) string {
	if property.InlineFragment != nil {
		return property.StructName
	}

	return strcase.ToPascal(property.Name)
}

// jsonTag はレスポンスキーを返す。inline fragment は __typename で分配される
// ためキーを持たない。
func jsonTag(property *codegen.Property) string {
	if property.InlineFragment != nil {
		return "-"
	}

	key := property.Name
	if property.Field != nil && property.Field.Alias != "" {
		key = property.Field.Alias
	}
	if property.IsOptional {
		key += ",omitempty"
	}

	return key
}
