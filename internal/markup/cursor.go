package markup

import "strings"

// lineCursor walks the lines of a document with one line of lookahead.
// Handlers that collect multi-line blocks use peek and next; a handler that
// gives up after consuming lines restores a saved mark.
type lineCursor struct {
	lines []string
	pos   int
}

func newLineCursor(src string) *lineCursor {
	src = strings.TrimSuffix(src, "\n")
	if src == "" {
		return &lineCursor{}
	}
	return &lineCursor{lines: strings.Split(src, "\n")}
}

func (c *lineCursor) done() bool {
	return c.pos >= len(c.lines)
}

// next returns the current line and advances. It must not be called when done.
func (c *lineCursor) next() string {
	line := c.lines[c.pos]
	c.pos++
	return line
}

// peek returns the current line without advancing.
func (c *lineCursor) peek() (string, bool) {
	if c.done() {
		return "", false
	}
	return c.lines[c.pos], true
}

// collectWhile consumes lines while keep accepts them.
func (c *lineCursor) collectWhile(keep func(string) bool) []string {
	var out []string
	for {
		line, ok := c.peek()
		if !ok || !keep(line) {
			return out
		}
		out = append(out, c.next())
	}
}

// collectUntil consumes lines up to and including the first line accepted
// by end. The terminating line is reported separately; found is false when
// the input ran out first.
func (c *lineCursor) collectUntil(end func(string) bool) (body []string, last string, found bool) {
	for !c.done() {
		line := c.next()
		if end(line) {
			return body, line, true
		}
		body = append(body, line)
	}
	return body, "", false
}

func (c *lineCursor) mark() int { return c.pos }

func (c *lineCursor) reset(m int) { c.pos = m }
