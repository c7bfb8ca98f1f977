package importer

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewStreamReader wraps r so that a leading UTF-8 byte order mark is dropped and
// invalid UTF-8 bytes are replaced with '?'. Memory use is bounded by the buffer
// size regardless of the input length.
func NewStreamReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &sanitizingReader{br: br}
}

type sanitizingReader struct {
	br *bufio.Reader
}

func (s *sanitizingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(p) {
		r, size, err := s.br.ReadRune()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}

		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}

		if n+size > len(p) {
			if n == 0 {
				// p cannot hold even one rune
				p[0] = '?'
				return 1, nil
			}
			_ = s.br.UnreadRune()
			break
		}
		n += utf8.EncodeRune(p[n:], r)

		if s.br.Buffered() == 0 && n > 0 {
			break
		}
	}
	return n, nil
}
