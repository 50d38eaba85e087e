package domain

// Parser extracts warning records and geometries from bulletin text.
// It holds no mutable state and is safe for concurrent use.
type Parser struct {
	segments int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithCircleSegments sets the vertex count used for circles and round
// buffer caps. Values below 8 are ignored.
func WithCircleSegments(n int) ParserOption {
	return func(p *Parser) {
		if n >= 8 {
			p.segments = n
		}
	}
}

// NewParser creates a Parser with default settings overridden by opts.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{segments: DefaultCircleSegments}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// ExtractGeometries classifies a warning body with the default parser.
func ExtractGeometries(text string) []GeometryRecord {
	return defaultParser.ExtractGeometries(text)
}
