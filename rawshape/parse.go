// SPDX-License-Identifier: MIT

package rawshape

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// tupleGrammar is the participle grammar for Python tuple text.
// Examples: "(6, 6)", "(5,)", "()", "( 3 ,2 )".
//
//nolint:govet // participle grammar tags are not standard struct tags
type tupleGrammar struct {
	Items []*tupleItem `parser:"\"(\" @@* \")\""`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tupleItem struct {
	Dim   int  `parser:"@Int"`
	Comma bool `parser:"@\",\"?"`
}

var tupleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var tupleParser = participle.MustBuild[tupleGrammar](
	participle.Lexer(tupleLexer),
	participle.Elide("Whitespace"),
)

// Parse reads Python tuple text into a Shape.
// A one-element tuple may omit the trailing comma ("(5)" is accepted).
// Items other than the last must be followed by a comma.
//
// Errors: ErrSyntax.
func Parse(text string) (Shape, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shapeErrorf("Parse", fmt.Errorf("empty string: %w", ErrSyntax))
	}

	parsed, err := tupleParser.ParseString("", text)
	if err != nil {
		return nil, shapeErrorf("Parse", fmt.Errorf("%q: %v: %w", text, err, ErrSyntax))
	}

	dims := make(Shape, 0, len(parsed.Items))
	for k, it := range parsed.Items {
		if !it.Comma && k < len(parsed.Items)-1 {
			return nil, shapeErrorf("Parse", fmt.Errorf("%q: missing comma: %w", text, ErrSyntax))
		}
		dims = append(dims, it.Dim)
	}

	return dims, nil
}

// selectorGrammar reads numpy-style index expressions such as
// "::2, 1", "1:-1, [0, 2]" or "3".
//
//nolint:govet // participle grammar tags are not standard struct tags
type selectorGrammar struct {
	Axes []*axisSelector `parser:"@@ ( \",\" @@ )*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type axisSelector struct {
	List  []int           `parser:"\"[\" @Int ( \",\" @Int )* \"]\""`
	Parts []*selectorPart `parser:"| @@+"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type selectorPart struct {
	Colon bool `parser:"@\":\""`
	Int   int  `parser:"| @Int"`
}

var selectorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Punct", Pattern: `[\[\],:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var selectorParser = participle.MustBuild[selectorGrammar](
	participle.Lexer(selectorLexer),
	participle.Elide("Whitespace"),
)

// ParseSelectors reads one selector per axis from index-expression text.
// A bare integer is an Index, "[a, b]" is Indices, anything with a colon is
// a Slice. Empty text selects everything (nil result).
//
// Errors: ErrSyntax, ErrInvalidSelection (zero step, too many colons).
func ParseSelectors(text string) ([]Selector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	parsed, err := selectorParser.ParseString("", text)
	if err != nil {
		return nil, shapeErrorf("ParseSelectors", fmt.Errorf("%q: %v: %w", text, err, ErrSyntax))
	}

	sels := make([]Selector, 0, len(parsed.Axes))
	for k, ax := range parsed.Axes {
		sel, err := ax.selector()
		if err != nil {
			return nil, shapeErrorf("ParseSelectors", fmt.Errorf("axis %d of %q: %w", k, text, err))
		}
		sels = append(sels, sel)
	}

	return sels, nil
}

func (ax *axisSelector) selector() (Selector, error) {
	if ax.List != nil {
		return Indices(ax.List), nil
	}

	// fields holds start, stop and step; colons advance the slot.
	fields := [3]int{None, None, None}
	slot, filled := 0, false
	for _, p := range ax.Parts {
		if p.Colon {
			slot++
			filled = false
			if slot > 2 {
				return nil, fmt.Errorf("more than two colons: %w", ErrInvalidSelection)
			}
			continue
		}
		if filled {
			return nil, fmt.Errorf("adjacent integers: %w", ErrSyntax)
		}
		fields[slot], filled = p.Int, true
	}

	if slot == 0 {
		return Index(fields[0]), nil
	}
	step := 1
	if fields[2] != None {
		if fields[2] == 0 {
			return nil, fmt.Errorf("zero step: %w", ErrInvalidSelection)
		}
		step = fields[2]
	}

	return Slice{Start: fields[0], Stop: fields[1], Step: step}, nil
}
