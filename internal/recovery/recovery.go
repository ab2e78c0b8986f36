// Package recovery turns source-like text holding a menu declaration into a
// validated menu.MenuData.
//
// The input is expected to contain a declaration of the form
//
//	export const menuData = { navigation: [ ... ] };
//
// possibly preceded by comments, import statements, and type/interface
// declarations. Recovery strips the surrounding syntax, rewrites the object
// literal into valid JSON, parses it, and validates the result.
//
// This is best-effort text rewriting, not a parser. It assumes a plain object
// literal: no nested functions, no computed keys, and no string values
// containing unescaped quote, comma, or brace characters that would collide
// with the rewrite rules. Inputs outside that shape fail with a parse or
// validation error; they are never silently "fixed".
package recovery

import (
	"encoding/json"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/megamenu/internal/errors"
	"git.home.luguber.info/inful/megamenu/internal/menu"
)

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	// Full-line comments only. Stripping trailing "//" would eat the tail of
	// every https:// URL in the literal.
	lineCommentRe = regexp.MustCompile(`(?m)^[ \t]*//.*$`)
	importRe      = regexp.MustCompile(`(?s)(?:^|\n)\s*import\s[^;]*;`)

	bareKeyRe       = regexp.MustCompile(`([{,\[]\s*)([A-Za-z_$][A-Za-z0-9_$]*)\s*:`)
	singleQuoteRe   = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	trueRe          = regexp.MustCompile(`\bTrue\b`)
	falseRe         = regexp.MustCompile(`\bFalse\b`)
	undefinedRe     = regexp.MustCompile(`\bundefined\b`)
)

// Recover recovers a MenuData from raw source text. constName selects the
// declaration to look for; empty means menu.DefaultConstName. Text that is
// already plain JSON (the store holds a .json file rather than a source file)
// skips the rewrite pipeline entirely.
func Recover(raw, constName string) (menu.MenuData, error) {
	if constName == "" {
		constName = menu.DefaultConstName
	}

	if trimmed := strings.TrimSpace(raw); strings.HasPrefix(trimmed, "{") {
		if data, err := parseAndValidate(trimmed); err == nil {
			return data, nil
		}
		// Fall through: object literals also start with "{" once the
		// declaration is missing, so let the pattern check report that.
	}

	text := blockCommentRe.ReplaceAllString(raw, "")
	text = lineCommentRe.ReplaceAllString(text, "")
	text = importRe.ReplaceAllString(text, "\n")
	text = stripTypeDeclarations(text)

	literal, err := extractLiteral(text, constName)
	if err != nil {
		return menu.MenuData{}, err
	}

	rewritten := rewriteToJSON(literal)
	return parseAndValidate(rewritten)
}

// declRe matches "export const <name>" with an optional type annotation,
// up to the assignment.
func declRe(constName string) *regexp.Regexp {
	return regexp.MustCompile(`export\s+const\s+` + regexp.QuoteMeta(constName) + `\s*(?::\s*[\w.$<>\[\], \t]+)?=`)
}

// extractLiteral isolates the object literal assigned to the named constant
// by scanning for the matching closing brace. String contents are skipped so
// braces inside values do not unbalance the scan.
func extractLiteral(text, constName string) (string, error) {
	loc := declRe(constName).FindStringIndex(text)
	if loc == nil {
		return "", errors.ParseError("menu declaration not found in source text").
			WithContext("const_name", constName)
	}

	rest := text[loc[1]:]
	start := strings.IndexByte(rest, '{')
	if start < 0 {
		return "", errors.ParseError("menu declaration has no object literal").
			WithContext("const_name", constName)
	}

	depth := 0
	var quote byte
	for i := start; i < len(rest); i++ {
		c := rest[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return rest[start : i+1], nil
			}
		}
	}
	return "", errors.ParseError("menu object literal is unterminated").
		WithContext("const_name", constName)
}

// stripTypeDeclarations removes "interface X {...}" and "type X = {...}"
// blocks, including nested braces, with an optional leading "export".
var typeDeclStartRe = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:interface\s+[A-Za-z_$][\w$]*|type\s+[A-Za-z_$][\w$]*\s*=)\s*\{`)

func stripTypeDeclarations(text string) string {
	for {
		loc := typeDeclStartRe.FindStringIndex(text)
		if loc == nil {
			return text
		}
		depth := 0
		end := -1
		for i := loc[1] - 1; i < len(text); i++ {
			switch text[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = i + 1
				}
			}
			if end > 0 {
				break
			}
		}
		if end < 0 {
			// Unterminated declaration; drop the rest of the text.
			return text[:loc[0]]
		}
		if end < len(text) && text[end] == ';' {
			end++
		}
		text = text[:loc[0]] + text[end:]
	}
}

// rewriteToJSON applies the rewrite rules in order: quote normalization,
// bare-key quoting, sentinel mapping, trailing-comma removal.
func rewriteToJSON(literal string) string {
	s := singleQuoteRe.ReplaceAllStringFunc(literal, func(m string) string {
		inner := m[1 : len(m)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		return `"` + inner + `"`
	})
	s = bareKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = trueRe.ReplaceAllString(s, "true")
	s = falseRe.ReplaceAllString(s, "false")
	s = undefinedRe.ReplaceAllString(s, "null")
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return s
}

// parseAndValidate parses rewritten JSON and checks the navigation invariant.
func parseAndValidate(text string) (menu.MenuData, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return menu.MenuData{}, errors.Wrap(err, errors.CategoryParse, errors.SeverityWarning,
			"rewritten menu text is not valid JSON")
	}

	nav, ok := probe["navigation"]
	if !ok {
		return menu.MenuData{}, errors.ValidationError("menu data has no navigation field")
	}
	if trimmed := strings.TrimSpace(string(nav)); !strings.HasPrefix(trimmed, "[") {
		return menu.MenuData{}, errors.ValidationError("navigation field is not a sequence")
	}

	var data menu.MenuData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return menu.MenuData{}, errors.Wrap(err, errors.CategoryValidation, errors.SeverityWarning,
			"navigation structure does not match the menu model")
	}
	data.Normalize()
	return data, nil
}
