package propertygen

import (
	"sort"

	"github.com/ettle/strcase"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlc/codegen"
	"github.com/gqlgo/gqlc/naming"
)

// CodeGenerator は選択セットを辿り、オペレーションごとのレスポンス構造体と
// ネストした構造体を組み立てる。
type CodeGenerator struct {
	ctx       *codegen.Context
	formatter *CodeFormatter
	generated map[string]string
}

// NewCodeGenerator creates a new CodeGenerator
func NewCodeGenerator(ctx *codegen.Context) *CodeGenerator {
	return &CodeGenerator{
		ctx:       ctx,
		formatter: NewCodeFormatter(),
		generated: map[string]string{},
	}
}

// GenerateOperation はオペレーションのトップレベル構造体と、選択セットから
// 到達可能なすべてのネスト構造体を生成する。
func (g *CodeGenerator) GenerateOperation(operation *ast.OperationDefinition) error {
	return g.generateStruct(operationStructName(operation), operation.SelectionSet)
}

// GenerateFragment は名前付きフラグメントの構造体を生成する。
func (g *CodeGenerator) GenerateFragment(fragment *ast.FragmentDefinition) error {
	return g.generateStruct(naming.StructNameForFragmentName(fragment.Name), fragment.SelectionSet)
}

// Sources は生成済みのすべての型宣言を型名順に返す。
func (g *CodeGenerator) Sources() []string {
	names := make([]string, 0, len(g.generated))
	for name := range g.generated {
		names = append(names, name)
	}
	sort.Strings(names)

	sources := make([]string, 0, len(names))
	for _, name := range names {
		sources = append(sources, g.generated[name])
	}

	return sources
}

// generateStruct は 1 つの構造体を生成し、複合プロパティへ再帰する。
// 同名の型は最初の定義が勝つ。フラグメントの相互参照で無限再帰しないよう、
// 再帰前に名前を予約する。
func (g *CodeGenerator) generateStruct(name string, selectionSet ast.SelectionSet) error {
	if _, ok := g.generated[name]; ok {
		return nil
	}
	g.generated[name] = ""

	properties, err := codegen.PropertiesFromSelectionSet(g.ctx, selectionSet)
	if err != nil {
		return err
	}

	g.generated[name] = g.formatter.FormatStructDecl(name, properties)

	for _, property := range properties {
		if property == nil || !property.IsComposite {
			continue
		}

		structName := nestedStructName(property)
		if err := g.generateStruct(structName, property.SelectionSet()); err != nil {
			return err
		}
	}

	return nil
}

// operationStructName はオペレーション構造体の型名を返す。
// 無名オペレーションはオペレーション種別（Query など）で代用する。
func operationStructName(operation *ast.OperationDefinition) string {
	if operation.Name != "" {
		return naming.OperationClassName(operation.Name)
	}

	return strcase.ToPascal(string(operation.Operation))
}

// nestedStructName は複合プロパティが指すネスト構造体の型名を返す。
func nestedStructName(property *codegen.Property) string {
	switch {
	case property.Fragment != nil:
		return property.TypeName
	case property.InlineFragment != nil:
		return property.StructName
	default:
		return property.BareTypeName
	}
}
