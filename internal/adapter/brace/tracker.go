package brace

import "stepkit/internal/port"

// Naive counts every curly brace on the line, including braces inside
// string literals.
type Naive struct{}

func (Naive) Delta(line string) int {
	delta := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}

// StringAware skips braces inside double-quoted strings. Quote state does
// not carry over between lines.
type StringAware struct{}

func (StringAware) Delta(line string) int {
	delta := 0
	inString := false
	escape := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString {
			if escape {
				escape = false
				continue
			}
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}

// New returns the tracker selected by configuration.
func New(stringAware bool) port.BraceTracker {
	if stringAware {
		return StringAware{}
	}
	return Naive{}
}
