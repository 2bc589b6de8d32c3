// Package token defines the classes of tokens produced when scanning
// expression text.
package token

// Type describes the class of a token.
type Type string

const (
	END    Type = "End"
	WHITE  Type = "White"
	NAME   Type = "Name"
	NUMBER Type = "Number"
	STRING Type = "String"
	OTHER  Type = "Other"
)

// Token is one token scanned from expression text. Start and End are byte
// offsets into the text; End is exclusive.
type Token struct {
	Type Type
	// Literal is the name, the operator, or the decoded string contents.
	// For numbers it is the source text.
	Literal string
	Number  float64
	Start   int
	End     int
}

// Is reports whether the token is a name or operator spelled op.
func (t Token) Is(op string) bool {
	return (t.Type == OTHER || t.Type == NAME) && t.Literal == op
}

// Describe returns the token as it should appear in error messages.
func (t Token) Describe() string {
	switch t.Type {
	case END:
		return "end of input"
	case STRING:
		return "string"
	default:
		return t.Literal
	}
}
