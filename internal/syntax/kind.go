package syntax

// Kind tags a node or token with the syntactic category it belongs to.
//
// Only the categories rsfix inspects have their own Kind; every other
// grammar node maps to Unknown and keeps its tree-sitter type name (see
// Node.Type), so the tree stays lossless without modelling the whole
// grammar.
type Kind uint16

const (
	Unknown Kind = iota

	// Trivia.
	Whitespace
	Comment

	SourceFile
	ErrorNode

	// Expressions.
	CallExpr
	FieldExpr
	GenericFunction
	Arguments
	ClosureExpr
	ClosureParameters
	Parameter
	IfExpr
	ElseClause
	LetCondition
	LetChain
	Block
	Label

	// Statements.
	ExprStmt
	EmptyStmt

	// Patterns.
	MutPattern
	RefPattern
	ReferencePattern
	TuplePattern
	TupleStructPattern
	StructPattern
	FieldPattern
	SlicePattern
	OrPattern
	CapturedPattern

	// Names.
	Identifier
	FieldIdentifier
	ShorthandFieldIdentifier
	MutableSpecifier

	// Punctuation and keywords.
	Dot
	Comma
	Pipe
	Colon
	Semicolon
	Amp
	Underscore
	LBrace
	RBrace
	LParen
	RParen
	IfKw
	ElseKw
	RefKw
	MoveKw

	kindCount
)

var kindNames = [kindCount]string{
	Unknown:                  "Unknown",
	Whitespace:               "Whitespace",
	Comment:                  "Comment",
	SourceFile:               "SourceFile",
	ErrorNode:                "Error",
	CallExpr:                 "CallExpr",
	FieldExpr:                "FieldExpr",
	GenericFunction:          "GenericFunction",
	Arguments:                "Arguments",
	ClosureExpr:              "ClosureExpr",
	ClosureParameters:        "ClosureParameters",
	Parameter:                "Parameter",
	IfExpr:                   "IfExpr",
	ElseClause:               "ElseClause",
	LetCondition:             "LetCondition",
	LetChain:                 "LetChain",
	Block:                    "Block",
	Label:                    "Label",
	ExprStmt:                 "ExprStmt",
	EmptyStmt:                "EmptyStmt",
	MutPattern:               "MutPattern",
	RefPattern:               "RefPattern",
	ReferencePattern:         "ReferencePattern",
	TuplePattern:             "TuplePattern",
	TupleStructPattern:       "TupleStructPattern",
	StructPattern:            "StructPattern",
	FieldPattern:             "FieldPattern",
	SlicePattern:             "SlicePattern",
	OrPattern:                "OrPattern",
	CapturedPattern:          "CapturedPattern",
	Identifier:               "Identifier",
	FieldIdentifier:          "FieldIdentifier",
	ShorthandFieldIdentifier: "ShorthandFieldIdentifier",
	MutableSpecifier:         "MutableSpecifier",
	Dot:                      "Dot",
	Comma:                    "Comma",
	Pipe:                     "Pipe",
	Colon:                    "Colon",
	Semicolon:                "Semicolon",
	Amp:                      "Amp",
	Underscore:               "Underscore",
	LBrace:                   "LBrace",
	RBrace:                   "RBrace",
	LParen:                   "LParen",
	RParen:                   "RParen",
	IfKw:                     "IfKw",
	ElseKw:                   "ElseKw",
	RefKw:                    "RefKw",
	MoveKw:                   "MoveKw",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrivia reports whether the kind is whitespace or a comment.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// rustKinds maps tree-sitter node type names of the Rust grammar to kinds.
var rustKinds = map[string]Kind{
	"source_file":                SourceFile,
	"ERROR":                      ErrorNode,
	"call_expression":            CallExpr,
	"field_expression":           FieldExpr,
	"generic_function":           GenericFunction,
	"arguments":                  Arguments,
	"closure_expression":         ClosureExpr,
	"closure_parameters":         ClosureParameters,
	"parameter":                  Parameter,
	"if_expression":              IfExpr,
	"else_clause":                ElseClause,
	"let_condition":              LetCondition,
	"let_chain":                  LetChain,
	"block":                      Block,
	"label":                      Label,
	"expression_statement":       ExprStmt,
	"empty_statement":            EmptyStmt,
	"mut_pattern":                MutPattern,
	"ref_pattern":                RefPattern,
	"reference_pattern":          ReferencePattern,
	"tuple_pattern":              TuplePattern,
	"tuple_struct_pattern":       TupleStructPattern,
	"struct_pattern":             StructPattern,
	"field_pattern":              FieldPattern,
	"slice_pattern":              SlicePattern,
	"or_pattern":                 OrPattern,
	"captured_pattern":           CapturedPattern,
	"identifier":                 Identifier,
	"field_identifier":           FieldIdentifier,
	"shorthand_field_identifier": ShorthandFieldIdentifier,
	"mutable_specifier":          MutableSpecifier,
	".":                          Dot,
	",":                          Comma,
	"|":                          Pipe,
	":":                          Colon,
	";":                          Semicolon,
	"&":                          Amp,
	"_":                          Underscore,
	"{":                          LBrace,
	"}":                          RBrace,
	"(":                          LParen,
	")":                          RParen,
	"if":                         IfKw,
	"else":                       ElseKw,
	"ref":                        RefKw,
	"move":                       MoveKw,
}

// KindOf returns the kind for a tree-sitter type name.
func KindOf(typ string) Kind {
	if k, ok := rustKinds[typ]; ok {
		return k
	}
	return Unknown
}
