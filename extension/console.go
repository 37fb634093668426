package extension

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleUI renders server notifications as plain text lines. It backs all
// three widget interfaces when the client runs outside an editor.
type ConsoleUI struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleUI(w io.Writer) *ConsoleUI {
	return &ConsoleUI{w: w}
}

func (u *ConsoleUI) Append(text string) {
	u.printf("%s\n", text)
}

func (u *ConsoleUI) Begin(token, message string) {
	if message == "" {
		message = token
	}
	u.printf("loading: %s\n", message)
}

func (u *ConsoleUI) End(token string) {
	u.printf("done: %s\n", token)
}

func (u *ConsoleUI) Render(decorations []Decoration) {
	for _, d := range decorations {
		u.printf("%s:%d:%d: %s\n", d.URI, d.Range.Start.Line+1, d.Range.Start.Character+1, d.Message)
	}
}

func (u *ConsoleUI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.w, format, args...)
}
