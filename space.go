package cad

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// spaceLexer 间距表达式，例如 "10"、"-5+2.5"
var spaceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]*)?|\.[0-9]+`},
	{Name: "Op", Pattern: `[-+]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type spaceExpr struct {
	Negative bool         `parser:"@'-'?"`
	First    float64      `parser:"@Number"`
	Rest     []*spaceTerm `parser:"@@*"`
}

type spaceTerm struct {
	Op    string  `parser:"@('+' | '-')"`
	Value float64 `parser:"@Number"`
}

var spaceParser = participle.MustBuild[spaceExpr](
	participle.Lexer(spaceLexer),
	participle.Elide("Whitespace"),
)

// ParseSpace 计算间距表达式，空串为 0
func ParseSpace(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	expr, err := spaceParser.ParseString("", s)
	if err != nil {
		return 0, fmt.Errorf("invalid space %q: %w", s, err)
	}

	value := expr.First
	if expr.Negative {
		value = -value
	}
	for _, term := range expr.Rest {
		if term.Op == "-" {
			value -= term.Value
		} else {
			value += term.Value
		}
	}

	return value, nil
}
