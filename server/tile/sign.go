package tile

import (
	"strconv"
	"strings"

	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
	"github.com/dm-vev/voxeltick/server/world"
	"golang.org/x/text/unicode/norm"
)

// SignLines is the amount of lines of text a sign holds.
const SignLines = 4

// Sign is the tile of sign posts and wall signs. It holds the text written on the sign.
type Sign struct {
	base
	lines [SignLines]string
}

// NewSign returns a sign tile at pos without text.
func NewSign(pos cube.Pos) *Sign {
	return &Sign{base: base{pos: pos}}
}

// Kind ...
func (*Sign) Kind() world.TileKind {
	return KindSign
}

// Lines returns the lines of text on the sign.
func (s *Sign) Lines() [SignLines]string {
	return s.lines
}

// SetText sets the text of the sign. Text with more lines than the sign holds is truncated. The text is
// normalised to NFC.
func (s *Sign) SetText(text string) {
	s.lines = [SignLines]string{}
	for i, line := range strings.SplitN(norm.NFC.String(text), "\n", SignLines+1) {
		if i == SignLines {
			break
		}
		s.lines[i] = line
	}
}

// Text returns the text of the sign with lines separated by newlines, without trailing empty lines.
func (s *Sign) Text() string {
	return strings.TrimRight(strings.Join(s.lines[:], "\n"), "\n")
}

// EncodeNBT ...
func (s *Sign) EncodeNBT() map[string]any {
	m := s.encodeBase(KindSign)
	for i, line := range s.lines {
		m["Text"+strconv.Itoa(i+1)] = line
	}
	return m
}

// DecodeNBT ...
func (s *Sign) DecodeNBT(data map[string]any) {
	s.decodeBase(data)
	for i := range s.lines {
		s.lines[i] = norm.NFC.String(nbtconv.String(data, "Text"+strconv.Itoa(i+1)))
	}
}
