package codegen

import "github.com/vektah/gqlparser/v2/ast"

// TypeNameResolver はスキーマの型参照から、生成コードで使う型名の文字列表現を
// 解決する。List / Optional のラップ方法はターゲット言語ごとに異なるため、
// 戦略として注入する。全域関数であり、失敗しない。
//
// overrideBaseName が空でない場合、最内の named type の名前を置き換える。
// isOptional はトップレベルの optional 性を示し、型自身の NonNull より優先される
// （conditional フィールドは NonNull でも optional になるため）。
type TypeNameResolver interface {
	TypeName(t *ast.Type, overrideBaseName string, isOptional bool) string
}

// GoTypeNameResolver は Go 向けの TypeNameResolver。
// List はスライス、optional はポインタとして表現する。
type GoTypeNameResolver struct {
	escaper Escaper
	scalars map[string]string
}

// NewGoTypeNameResolver は組み込みスカラーのマッピングを持つ GoTypeNameResolver を作成する。
func NewGoTypeNameResolver(escaper Escaper) *GoTypeNameResolver {
	return &GoTypeNameResolver{
		escaper: escaper,
		scalars: map[string]string{
			"Int":     "int64",
			"Float":   "float64",
			"String":  "string",
			"Boolean": "bool",
			"ID":      "string",
		},
	}
}

// TypeName は型参照を Go の型名として描画する。
// 内側のラップは型参照自身の NonNull に従い、トップレベルの optional 性は
// isOptional のみで決まる。
func (r *GoTypeNameResolver) TypeName(t *ast.Type, overrideBaseName string, isOptional bool) string {
	return r.render(t, overrideBaseName, isOptional)
}

func (r *GoTypeNameResolver) render(t *ast.Type, overrideBaseName string, optional bool) string {
	var name string
	if t.NamedType != "" {
		name = r.baseName(t.NamedType, overrideBaseName)
	} else {
		name = "[]" + r.render(t.Elem, overrideBaseName, !t.Elem.NonNull)
	}
	if optional {
		return "*" + name
	}
	return name
}

func (r *GoTypeNameResolver) baseName(namedType, overrideBaseName string) string {
	if overrideBaseName != "" {
		return overrideBaseName
	}
	if goName, ok := r.scalars[namedType]; ok {
		return goName
	}
	return r.escaper.Escape(namedType)
}
