package input

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field is an editable numeric text field with a fallback value.
type Field struct {
	Name    string
	Text    string
	Default float64
}

func NewField(name string, def float64) *Field {
	return &Field{Name: name, Text: format(def), Default: def}
}

// Value parses the text as a real number. Empty, malformed or non-finite
// text yields the default; the caller never sees a parse error.
func (f *Field) Value() float64 {
	v, ok := f.Parse()
	if !ok {
		return f.Default
	}
	return v
}

// Parse reports whether the current text is a usable number.
func (f *Field) Parse() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.Text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Insert appends r when it can be part of a number and reports whether it did.
func (f *Field) Insert(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r == '.', r == '-', r == '+', r == 'e', r == 'E':
		f.Text += string(r)
		return true
	}
	return false
}

func (f *Field) Backspace() {
	if len(f.Text) == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(f.Text)
	f.Text = f.Text[:len(f.Text)-size]
}

func (f *Field) SetText(s string) { f.Text = s }

func (f *Field) Reset() { f.Text = format(f.Default) }

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
