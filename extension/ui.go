package extension

// OutputChannel receives log text pushed by the language server.
type OutputChannel interface {
	Append(text string)
}

// ProgressReporter renders long-running server work. Begin and End are paired
// by progress token; End is never called for a token that was not begun.
type ProgressReporter interface {
	Begin(token, message string)
	End(token string)
}

// DecorationRenderer renders inline decorations pushed by the server,
// replacing whatever it rendered before.
type DecorationRenderer interface {
	Render(decorations []Decoration)
}

// Position is a zero-based line/character position in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [start, end) range in a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Decoration is one inline annotation the server wants shown in the editor.
type Decoration struct {
	URI     string `json:"uri"`
	Range   Range  `json:"range"`
	Message string `json:"message"`
}

type logMessageParams struct {
	Type    int    `json:"type"`
	Message string `json:"message"`
}

type loadingParams struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

type engineDecorationsParams struct {
	Decorations []Decoration `json:"decorations"`
}

type tagsLoadedParams struct {
	URI  string   `json:"uri"`
	Tags []string `json:"tags"`
}
