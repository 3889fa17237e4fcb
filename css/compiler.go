// Package css generates the stylesheet hiding bookmarks menu elements and
// inspects generated sheets.
package css

import (
	"strings"

	"sbm/options"
)

const (
	xulNamespace = `@namespace url("http://www.mozilla.org/keymaster/gatekeeper/there.is.only.xul");`
	// DefaultDocument is browser window chrome document.
	DefaultDocument = "chrome://browser/content/browser.xul"
	hideDeclaration = "{display: none !important;}"
)

// Stylesheet is compiled CSS and locator it is registered under.
type Stylesheet struct {
	Text    string
	Locator string
}

// Compiler turns options into stylesheet. It keeps no state between calls,
// identical options always produce identical output.
type Compiler struct {
	document string
}

// Option configures Compiler.
type Option func(*Compiler)

// WithDocument sets chrome document generated rules are scoped to.
func WithDocument(url string) Option {
	return func(c *Compiler) {
		if len(url) > 0 {
			c.document = url
		}
	}
}

func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{document: DefaultDocument}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document returns chrome document rules are scoped to.
func (c *Compiler) Document() string {
	return c.document
}

// Compile produces stylesheet for the complete set of options.
func (c *Compiler) Compile(o options.Options) Stylesheet {
	var hide, blocks []string
	for _, r := range rules {
		if !r.when(o) {
			continue
		}
		hide = append(hide, r.hide...)
		blocks = append(blocks, r.blocks...)
	}

	var b strings.Builder
	b.WriteString(xulNamespace)
	b.WriteByte('\n')
	b.WriteString(`@-moz-document url("`)
	b.WriteString(escapeDoubleQuoted(c.document))
	b.WriteString("\") {\n")
	// empty selector list is not valid CSS
	if len(hide) > 0 {
		b.WriteString(strings.Join(hide, ", "))
		b.WriteByte(' ')
		b.WriteString(hideDeclaration)
		b.WriteByte('\n')
	}
	for _, block := range blocks {
		b.WriteString(block)
		b.WriteByte('\n')
	}
	b.WriteByte('}')

	text := b.String()
	return Stylesheet{Text: text, Locator: EncodeLocator(text)}
}

// escapeDoubleQuoted escapes a string for use inside CSS double quotes.
func escapeDoubleQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
