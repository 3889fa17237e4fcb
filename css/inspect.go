package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Rule is a ruleset found in inspected stylesheet.
type Rule struct {
	Selectors    []string
	Declarations map[string]string
}

// Summary describes what inspected stylesheet does.
type Summary struct {
	Namespace string
	Document  string
	// Hidden lists selectors of all rulesets declaring "display: none".
	Hidden []string
	// Other lists remaining rulesets.
	Other []Rule
}

// IsHidden reports whether selector is among hidden ones. Comparison
// ignores whitespace.
func (s *Summary) IsHidden(selector string) bool {
	key := SelectorKey(selector)
	for _, h := range s.Hidden {
		if SelectorKey(h) == key {
			return true
		}
	}
	return false
}

// FindRule returns first non hiding ruleset with given selector.
func (s *Summary) FindRule(selector string) (Rule, bool) {
	key := SelectorKey(selector)
	for _, r := range s.Other {
		for _, sel := range r.Selectors {
			if SelectorKey(sel) == key {
				return r, true
			}
		}
	}
	return Rule{}, false
}

// SelectorKey normalizes selector for comparison.
func SelectorKey(selector string) string {
	return strings.Join(strings.Fields(selector), "")
}

// Inspector parses stylesheets back, it is used to verify generated CSS.
type Inspector struct {
	log *zap.Logger
}

func NewInspector(log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{log: log.Named("css-inspector")}
}

// Inspect parses CSS text. Rulesets nested in at-rule blocks
// (@-moz-document, @media) are reported as if they were top level.
func (in *Inspector) Inspect(text string) (*Summary, error) {
	sum := &Summary{}
	parser := css.NewParser(parse.NewInput(bytes.NewReader([]byte(text))), false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to parse stylesheet: %w", err)
			}
			in.log.Debug("Stylesheet inspected",
				zap.Int("hidden", len(sum.Hidden)), zap.Int("rules", len(sum.Other)))
			return sum, nil

		case css.AtRuleGrammar:
			if string(data) == "@namespace" {
				sum.Namespace = extractURL(parser.Values())
			} else {
				in.log.Debug("Ignoring @-rule", zap.ByteString("rule", data))
			}

		case css.BeginAtRuleGrammar:
			if strings.HasSuffix(string(data), "-document") || string(data) == "@document" {
				sum.Document = extractURL(parser.Values())
			}

		case css.BeginRulesetGrammar:
			selectors := splitSelectors(data, parser.Values())
			decls := readDeclarations(parser)
			if v, ok := decls["display"]; ok && strings.HasPrefix(v, "none") {
				sum.Hidden = append(sum.Hidden, selectors...)
				delete(decls, "display")
				if len(decls) == 0 {
					continue
				}
			}
			sum.Other = append(sum.Other, Rule{Selectors: selectors, Declarations: decls})
		}
	}
}

// readDeclarations consumes declarations until the end of the ruleset.
func readDeclarations(parser *css.Parser) map[string]string {
	decls := make(map[string]string)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls
		case css.DeclarationGrammar:
			decls[strings.ToLower(string(data))] = joinTokens(parser.Values())
		}
	}
}

func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		// parser drops whitespace around "!"
		if t.TokenType == css.DelimToken && string(t.Data) == "!" && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(t.Data)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// splitSelectors splits selector group on top level commas, commas inside
// functional pseudo-classes like :-moz-any() are kept.
func splitSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var (
		out   []string
		depth int
		start int
		group = sb.String()
	)
	for i := 0; i < len(group); i++ {
		switch group[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if s := strings.TrimSpace(group[start:i]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(group[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// extractURL handles url("x"), url(x) and "x" forms.
func extractURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
