package codegen

// Escaper は生の名前をターゲット言語で安全な識別子にエスケープする。
// 全域関数であり、失敗しない。
type Escaper interface {
	Escape(name string) string
}

// GoEscaper は Go の予約語と衝突する名前をエスケープする Escaper。
// 予約語には "_" を後置する（例: "type" → "type_"）。
type GoEscaper struct{}

var goReservedWords = map[string]bool{
	"break":       true,
	"case":        true,
	"chan":        true,
	"const":       true,
	"continue":    true,
	"default":     true,
	"defer":       true,
	"else":        true,
	"fallthrough": true,
	"for":         true,
	"func":        true,
	"go":          true,
	"goto":        true,
	"if":          true,
	"import":      true,
	"interface":   true,
	"map":         true,
	"package":     true,
	"range":       true,
	"return":      true,
	"select":      true,
	"struct":      true,
	"switch":      true,
	"type":        true,
	"var":         true,
}

// Escape は name が Go の予約語であれば "_" を後置して返す。
// それ以外はそのまま返す。
func (GoEscaper) Escape(name string) string {
	if goReservedWords[name] {
		return name + "_"
	}
	return name
}
