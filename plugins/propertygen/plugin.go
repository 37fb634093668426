// Package propertygen は GraphQL オペレーションのレスポンス構造体を生成する。
//
// このパッケージは選択セットをプロパティ記述子（codegen パッケージ）へ写像し、
// オペレーション（クエリ、ミューテーション、サブスクリプション）ごとに
// 以下を持つ Go 型を生成するコードジェネレータプラグインを提供する:
//   - トップレベルのレスポンス構造体（オペレーション名からクラス名を導出）
//   - 複合フィールドごとのネストした構造体
//   - Fragment spreads (json:"-" を持つ埋め込みフィールド)
//   - Inline fragments (型条件ごとの "As" 付きフィールド)
//
// 生成されたファイルは goimports で整形される。
package propertygen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/gqlgo/gqlc/codegen"
	"github.com/gqlgo/gqlc/config"
)

// Plugin はレスポンス構造体を生成するプラグイン。
type Plugin struct {
	cfg *config.Config
}

// New は新しい propertygen プラグインインスタンスを作成する。
func New(cfg *config.Config) *Plugin {
	return &Plugin{cfg: cfg}
}

// Name はプラグインシステム用にこのプラグインの名前を返す。
func (p *Plugin) Name() string {
	return "propertygen"
}

// Generate はレスポンス構造体ファイルを生成し、goimports を実行する。
func (p *Plugin) Generate() error {
	if err := RenderTemplate(p.cfg); err != nil {
		return fmt.Errorf("template failed: %w", err)
	}

	return nil
}

// RenderTemplate renders every operation and fragment of the loaded query
// document into the configured output file.
func RenderTemplate(cfg *config.Config) error {
	gqlcConfig := cfg.GQLCConfig

	escaper := &codegen.GoEscaper{}
	ctx := codegen.NewContext(gqlcConfig.LoadedSchema, gqlcConfig.QueryDocument, escaper, codegen.NewGoTypeNameResolver(escaper))
	generator := NewCodeGenerator(ctx)

	for _, operation := range gqlcConfig.QueryDocument.Operations {
		if err := generator.GenerateOperation(operation); err != nil {
			return fmt.Errorf("operation %s: %w", operation.Name, err)
		}
	}

	for _, fragment := range gqlcConfig.QueryDocument.Fragments {
		if err := generator.GenerateFragment(fragment); err != nil {
			return fmt.Errorf("fragment %s: %w", fragment.Name, err)
		}
	}

	var buf strings.Builder
	buf.WriteString("// Code generated by gqlc, DO NOT EDIT.\n\n")
	buf.WriteString(fmt.Sprintf("package %s\n\n", gqlcConfig.PropertyGen.Package))
	for _, source := range generator.Sources() {
		buf.WriteString(source)
		buf.WriteString("\n")
	}

	filename := gqlcConfig.PropertyGen.Filename
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	formatted, err := imports.Process(filename, []byte(buf.String()), nil)
	if err != nil {
		return fmt.Errorf("go imports: %w", err)
	}

	if err := os.WriteFile(filename, formatted, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	return nil
}
