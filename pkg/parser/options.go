package parser

import "fmt"

// Universe selects which nodes make up the pair universe
type Universe string

const (
	// UniverseUnion uses every node that appears in either file
	UniverseUnion Universe = "union"
	// UniverseReference uses only nodes of the reference file; predictions
	// touching other nodes are dropped
	UniverseReference Universe = "reference"
)

// DelimiterAuto detects the column separator per line
const DelimiterAuto = "auto"

// Options controls how edge files are read and normalized
type Options struct {
	Directed  bool     // treat (a,b) and (b,a) as different pairs
	SelfEdges bool     // keep pairs whose endpoints are the same node
	AbsScores bool     // rank predictions by absolute score
	Header    bool     // first data line of each file is a header
	Delimiter string   // column separator, DelimiterAuto when empty
	Universe  Universe // node universe
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Directed:  true,
		SelfEdges: false,
		AbsScores: false,
		Header:    true,
		Delimiter: DelimiterAuto,
		Universe:  UniverseUnion,
	}
}

// Validate checks option values that cannot be expressed by the type alone
func (o Options) Validate() error {
	switch o.Universe {
	case UniverseUnion, UniverseReference, "":
	default:
		return fmt.Errorf("unknown node universe %q", o.Universe)
	}
	return nil
}

// ParseDelimiter turns a configured delimiter name into the separator string
func ParseDelimiter(name string) (string, error) {
	switch name {
	case "", DelimiterAuto:
		return DelimiterAuto, nil
	case "tab", `\t`, "\t":
		return "\t", nil
	case "comma", ",":
		return ",", nil
	case "space", "whitespace", " ":
		return " ", nil
	}
	if len(name) == 1 {
		return name, nil
	}
	return "", fmt.Errorf("unsupported delimiter %q", name)
}
