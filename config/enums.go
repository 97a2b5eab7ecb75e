package config

import (
	"fmt"
	"strings"
)

// OutputFmt is the requested output type.
// ENUM(tree, yaml, svg)
type OutputFmt int

const (
	// OutputFmtTree is a OutputFmt of type Tree.
	OutputFmtTree OutputFmt = iota
	// OutputFmtYaml is a OutputFmt of type Yaml.
	OutputFmtYaml
	// OutputFmtSvg is a OutputFmt of type Svg.
	OutputFmtSvg
)

var ErrInvalidOutputFmt = fmt.Errorf("not a valid OutputFmt, try [%s]", strings.Join(_OutputFmtNames, ", "))

var _OutputFmtNames = []string{"tree", "yaml", "svg"}

// OutputFmtNames returns a list of possible string values of OutputFmt.
func OutputFmtNames() []string {
	tmp := make([]string, len(_OutputFmtNames))
	copy(tmp, _OutputFmtNames)
	return tmp
}

// String implements the Stringer interface.
func (o OutputFmt) String() string {
	if o >= 0 && int(o) < len(_OutputFmtNames) {
		return _OutputFmtNames[o]
	}
	return fmt.Sprintf("OutputFmt(%d)", o)
}

// IsValid provides a quick way to determine if the typed value is part of the
// allowed enumerated values.
func (o OutputFmt) IsValid() bool {
	return o >= 0 && int(o) < len(_OutputFmtNames)
}

// ParseOutputFmt attempts to convert a string to a OutputFmt, case is ignored.
func ParseOutputFmt(name string) (OutputFmt, error) {
	for i, n := range _OutputFmtNames {
		if strings.EqualFold(n, name) {
			return OutputFmt(i), nil
		}
	}
	return OutputFmt(0), fmt.Errorf("%s is %w", name, ErrInvalidOutputFmt)
}

// MarshalText implements the text marshaller method.
func (o OutputFmt) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (o *OutputFmt) UnmarshalText(text []byte) error {
	tmp, err := ParseOutputFmt(string(text))
	if err != nil {
		return err
	}
	*o = tmp
	return nil
}

// Ext returns suffix of output file name, it never matches source extension.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtTree:
		return ".cascade.txt"
	case OutputFmtYaml:
		return ".cascade.yaml"
	case OutputFmtSvg:
		return ".inline.svg"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
