package item

import (
	"errors"
	"fmt"
)

// Generations of a written book. Books of a generation above GenerationCopy cannot be copied.
const (
	GenerationOriginal = iota
	GenerationCopy
	GenerationCopyOfCopy
	GenerationTattered
)

const (
	bookGeneration = "generation"
	bookAuthor     = "author"
	bookTitle      = "title"
)

// ErrInvalidGeneration is returned when setting a book generation outside of GenerationOriginal through
// GenerationTattered.
var ErrInvalidGeneration = errors.New("invalid book generation")

// Generation returns the generation of a written book, or -1 if the stack has none.
func (s Stack) Generation() int {
	if v, ok := s.Value(bookGeneration); ok {
		if gen, ok := v.(int32); ok {
			return int(gen)
		}
	}
	return -1
}

// WithGeneration returns a copy of the stack with the book generation passed. ErrInvalidGeneration is
// returned if gen is out of range, in which case the stack is returned unchanged.
func (s Stack) WithGeneration(gen int) (Stack, error) {
	if gen < GenerationOriginal || gen > GenerationTattered {
		return s, fmt.Errorf("%w: %v", ErrInvalidGeneration, gen)
	}
	return s.WithValue(bookGeneration, int32(gen)), nil
}

// Author returns the author a written book was signed by. The author is free text and does not identify
// the actor that signed the book.
func (s Stack) Author() string {
	v, _ := s.Value(bookAuthor)
	author, _ := v.(string)
	return author
}

// WithAuthor returns a copy of the stack signed by the author passed.
func (s Stack) WithAuthor(author string) Stack {
	return s.WithValue(bookAuthor, author)
}

// Title returns the title of a written book.
func (s Stack) Title() string {
	v, _ := s.Value(bookTitle)
	title, _ := v.(string)
	return title
}

// WithTitle returns a copy of the stack with the title passed.
func (s Stack) WithTitle(title string) Stack {
	return s.WithValue(bookTitle, title)
}
