package subckt

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// subcktLexer defines the lexical structure of the subcircuit format:
// a small brace-delimited description of components, pads and nets.
var subcktLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments - both // and # to end of line
	{Name: "Comment", Pattern: `//[^\n]*|#[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Keywords
	{Name: "KwBoard", Pattern: `\bboard\b`},
	{Name: "KwOutline", Pattern: `\boutline\b`},
	{Name: "KwComponent", Pattern: `\bcomponent\b`},
	{Name: "KwFootprint", Pattern: `\bfootprint\b`},
	{Name: "KwPad", Pattern: `\bpad\b`},
	{Name: "KwAt", Pattern: `\bat\b`},
	{Name: "KwRot", Pattern: `\brot\b`},
	{Name: "KwSize", Pattern: `\bsize\b`},
	{Name: "KwNet", Pattern: `\bnet\b`},
	{Name: "KwLocked", Pattern: `\blocked\b`},

	// Literals
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?`},

	// Punctuation
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},

	// Identifiers (must come after keywords)
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.-]*`},
})
