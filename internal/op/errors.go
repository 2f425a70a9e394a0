package op

import "fmt"

// ShapeError reports an unresolved or inconsistent shape at inference time.
type ShapeError struct {
	Op   string // operator name
	Slot int    // offending input slot
	Msg  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape error at input %d: %s", e.Op, e.Slot, e.Msg)
}

// TypeError reports an unresolved or inconsistent dtype at inference time.
type TypeError struct {
	Op   string // operator name
	Slot int    // offending input slot
	Msg  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: type error at input %d: %s", e.Op, e.Slot, e.Msg)
}

// ParameterParseError reports a malformed or non-finite parameter value
// at node-construction time.
type ParameterParseError struct {
	Op    string // operator name
	Attr  string // attribute name
	Value string // raw attribute value
	Err   error  // underlying parse error, if any
}

func (e *ParameterParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: parameter %q=%q: %v", e.Op, e.Attr, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: parameter %q=%q is not a finite number", e.Op, e.Attr, e.Value)
}

func (e *ParameterParseError) Unwrap() error {
	return e.Err
}
