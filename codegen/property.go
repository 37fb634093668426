// Package codegen は GraphQL クエリの selection set から、コードエミッタが
// 消費するプロパティ記述子（プロパティ名・型名・構造体名）の列を導出する。
//
// 派生処理は純粋で、selection ごとに独立している。失敗するのは
// fragment spread の解決（Context.Fragments に名前がない場合）のみ。
package codegen

import (
	"fmt"
	"strings"

	"github.com/ettle/strcase"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/gqlc/naming"
	"github.com/gqlgo/gqlc/queryparser"
)

// Context は 1 回のコード生成パスで共有される参照情報を持つ。
// 可変状態は持たず、複数の selection set に対して繰り返し使える。
type Context struct {
	Schema    *ast.Schema
	Fragments map[string]*ast.FragmentDefinition
	Escaper   Escaper
	Resolver  TypeNameResolver
}

// NewContext はパース済みのクエリドキュメントから Context を構築する。
func NewContext(schema *ast.Schema, doc *ast.QueryDocument, escaper Escaper, resolver TypeNameResolver) *Context {
	return &Context{
		Schema:    schema,
		Fragments: queryparser.FragmentMap(doc),
		Escaper:   escaper,
		Resolver:  resolver,
	}
}

// Property は selection 1 件に対するプロパティ記述子。
//
// 元の selection ノードは Field / InlineFragment / FragmentSpread の
// いずれか 1 つにそのまま保持され（改名・欠落なし）、派生した命名属性だけが
// 追加される。構築後に変更してはならない。
type Property struct {
	Field          *ast.Field
	InlineFragment *ast.InlineFragment
	FragmentSpread *ast.FragmentSpread
	Fragment       *ast.FragmentDefinition // fragment spread の解決結果

	Name          string // エスケープ済みプロパティ名
	TypeName      string
	BareTypeName  string // composite な field のみ
	StructName    string // inline fragment のみ
	IsConditional bool
	IsOptional    bool
	IsList        bool
	IsComposite   bool
}

// SelectionSet は記述子の元になった selection の下位 selection set を返す。
// composite でない場合は nil。
func (p *Property) SelectionSet() ast.SelectionSet {
	switch {
	case p.Field != nil:
		return p.Field.SelectionSet
	case p.InlineFragment != nil:
		return p.InlineFragment.SelectionSet
	case p.Fragment != nil:
		return p.Fragment.SelectionSet
	}
	return nil
}

// UnresolvedFragmentError は fragment spread が参照する fragment が
// Context.Fragments に存在しない場合のエラー。呼び出し側はこのドキュメントの
// 生成パスを中断しなければならない。
type UnresolvedFragmentError struct {
	Name string
}

func (e *UnresolvedFragmentError) Error() string {
	return fmt.Sprintf("cannot find fragment %q", e.Name)
}

// PropertiesFromSelectionSet は selection set の各 selection を種別で
// ディスパッチし、順序を保ったプロパティ記述子の列を返す。
//
// 上流のパーサは Field / InlineFragment / FragmentSpread の 3 種しか
// 生成しないが、未知の selection は位置を保ったまま nil として含める。
// 呼び出し側は nil 要素を許容すること。
func PropertiesFromSelectionSet(ctx *Context, selectionSet ast.SelectionSet) ([]*Property, error) {
	properties := make([]*Property, 0, len(selectionSet))
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *ast.Field:
			properties = append(properties, PropertyFromField(ctx, sel))
		case *ast.InlineFragment:
			properties = append(properties, PropertyFromInlineFragment(ctx, sel))
		case *ast.FragmentSpread:
			property, err := PropertyFromFragmentSpread(ctx, sel)
			if err != nil {
				return nil, err
			}
			properties = append(properties, property)
		default:
			properties = append(properties, nil)
		}
	}

	return properties, nil
}

// PropertyFromField は field からプロパティ記述子を導出する。
//
// 名前は field.Name、なければエイリアスを使う。"__" で始まるメタフィールド
// （例: __typename）はケース変換せずそのままエスケープする。
func PropertyFromField(ctx *Context, field *ast.Field) *Property {
	name := field.Name
	if name == "" {
		name = field.Alias
	}

	var propertyName string
	if strings.HasPrefix(name, "__") {
		propertyName = ctx.Escaper.Escape(name)
	} else {
		propertyName = ctx.Escaper.Escape(strcase.ToCamel(name))
	}

	conditional := fieldIsConditional(field)
	fieldType := fieldTypeOf(field)

	property := &Property{
		Field:         field,
		Name:          propertyName,
		IsConditional: conditional,
		IsList:        fieldType.Elem != nil,
		IsOptional:    conditional || !fieldType.NonNull,
	}

	if isCompositeType(ctx, bareType(fieldType), field) {
		property.BareTypeName = ctx.Escaper.Escape(naming.StructNameForPropertyName(name))
		property.TypeName = ctx.Resolver.TypeName(fieldType, property.BareTypeName, property.IsOptional)
		property.IsComposite = true
		return property
	}

	property.TypeName = ctx.Resolver.TypeName(fieldType, "", property.IsOptional)
	return property
}

// PropertyFromInlineFragment は inline fragment からプロパティ記述子を導出する。
// ランタイム型が type condition に一致したときだけ値が存在するため、常に optional。
func PropertyFromInlineFragment(ctx *Context, inlineFragment *ast.InlineFragment) *Property {
	structName := naming.StructNameForInlineFragment(inlineFragment)

	return &Property{
		InlineFragment: inlineFragment,
		Name:           strcase.ToCamel(structName),
		TypeName:       ctx.Resolver.TypeName(ast.NamedType(inlineFragment.TypeCondition, nil), structName, true),
		StructName:     structName,
		IsOptional:     true,
		IsComposite:    true,
	}
}

// PropertyFromFragmentSpread は fragment spread からプロパティ記述子を導出する。
// fragment 名が Context.Fragments で解決できない場合は UnresolvedFragmentError を返す。
func PropertyFromFragmentSpread(ctx *Context, fragmentSpread *ast.FragmentSpread) (*Property, error) {
	fragment, ok := ctx.Fragments[fragmentSpread.Name]
	if !ok {
		return nil, &UnresolvedFragmentError{Name: fragmentSpread.Name}
	}

	return &Property{
		FragmentSpread: fragmentSpread,
		Fragment:       fragment,
		Name:           strcase.ToCamel(fragmentSpread.Name),
		TypeName:       naming.StructNameForFragmentName(fragmentSpread.Name),
		IsComposite:    true,
	}, nil
}

// fieldIsConditional は field の存在がランタイムの条件に依存するかを返す。
// @include / @skip ディレクティブを持つ field が該当する。
func fieldIsConditional(field *ast.Field) bool {
	return field.Directives.ForName("include") != nil || field.Directives.ForName("skip") != nil
}

// fieldTypeOf は field の型参照を返す。メタフィールドなどで Definition が
// 無い場合は String! として扱う。
func fieldTypeOf(field *ast.Field) *ast.Type {
	if field.Definition == nil || field.Definition.Type == nil {
		return ast.NonNullNamedType("String", nil)
	}
	return field.Definition.Type
}

// bareType は List ラップをすべて剥がした named type を返す。
func bareType(t *ast.Type) *ast.Type {
	for t.Elem != nil {
		t = t.Elem
	}
	return t
}

// isCompositeType は型が下位 selection を持つ composite（object / interface / union）
// かを判定する。スキーマに定義があればそれに従い、なければ selection set の有無で
// 代用する。
func isCompositeType(ctx *Context, bare *ast.Type, field *ast.Field) bool {
	if ctx.Schema != nil {
		if def, ok := ctx.Schema.Types[bare.NamedType]; ok {
			return def.IsCompositeType()
		}
	}
	return len(field.SelectionSet) > 0
}
