// Package naming は GraphQL のスキーマ/クエリ構造から、生成コードで使う
// 識別子名（enum ケース名、オペレーション型名、構造体名）を導出する。
//
// すべての関数は純粋で、呼び出し間で共有する状態を持たない。
// ケース変換は strcase、英語名詞の単数化は inflection に委譲する。
package naming

import (
	"github.com/ettle/strcase"
	"github.com/jinzhu/inflection"

	"github.com/vektah/gqlparser/v2/ast"
)

// EnumCaseName は enum 値の識別子名を返す（lowerCamelCase）。
func EnumCaseName(name string) string {
	return strcase.ToCamel(name)
}

// OperationClassName は生成されるオペレーション型の名前を返す（PascalCase）。
func OperationClassName(name string) string {
	return strcase.ToPascal(name)
}

// StructNameForPropertyName はプロパティ名から構造体名を導出する。
//
// リスト値のプロパティから生成される構造体はコレクションではなく
// 単一要素を表すため、先に単数化してから PascalCase にする
// （例: "users" → "User"）。
func StructNameForPropertyName(propertyName string) string {
	return strcase.ToPascal(inflection.Singular(propertyName))
}

// StructNameForFragmentName は fragment 名をそのまま PascalCase にした構造体名を返す。
// fragment 名は慣習的に既に単数形のため、単数化はしない。
func StructNameForFragmentName(fragmentName string) string {
	return strcase.ToPascal(fragmentName)
}

// StructNameForInlineFragment は inline fragment の type condition に
// "As" を前置した構造体名を返す（例: type condition が Dog なら "AsDog"）。
// 「このプロパティを型 X として見る」という型キャスト的な意味を持つ。
func StructNameForInlineFragment(inlineFragment *ast.InlineFragment) string {
	return "As" + strcase.ToPascal(inlineFragment.TypeCondition)
}
