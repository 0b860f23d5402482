package pipeline

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/util"
)

// codeStyle is the chroma style used for highlighted code blocks.
const codeStyle = "github"

// codeFormatter emits inline styles so the house stylesheet needs no
// per-token classes.
var codeFormatter = chromahtml.New(
	chromahtml.WithClasses(false),
	chromahtml.TabWidth(4),
)

// writeCode writes lines as a code block, highlighted when lang names a
// known lexer and escaped verbatim otherwise.
func writeCode(w io.Writer, lang string, lines []string) error {
	code := strings.Join(lines, "\n")
	if lexer := lexers.Get(lang); lang != "" && lexer != nil {
		it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
		if err == nil {
			return codeFormatter.Format(w, styles.Get(codeStyle), it)
		}
	}

	if _, err := io.WriteString(w, `<pre class="code"><code>`); err != nil {
		return err
	}
	if _, err := w.Write(util.EscapeHTML([]byte(code))); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</code></pre>\n")
	return err
}
