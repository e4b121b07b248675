package graph

import "strings"

// Port addresses a named channel of a pass instance. A Port with an empty
// Name refers to the pass itself.
type Port struct {
	Pass string
	Name string
}

// Returns true if the port refers to a whole pass rather than one of its channels.
func (p Port) IsPassRef() bool {
	return p.Name == ""
}

func (p Port) String() string {
	if p.Name == "" {
		return p.Pass
	}
	return p.Pass + "." + p.Name
}

func (p Port) less(other Port) bool {
	if p.Pass != other.Pass {
		return p.Pass < other.Pass
	}
	return p.Name < other.Name
}

// Parse a "<pass>.<port>" or "<pass>" reference.
func ParsePort(ref string) (Port, error) {
	passName, portName, hasPort := strings.Cut(ref, ".")
	switch {
	case passName == "":
		return Port{}, &MalformedPortError{Ref: ref, Reason: "missing pass name"}
	case strings.ContainsAny(passName, " \t"):
		return Port{}, &MalformedPortError{Ref: ref, Reason: "pass name contains whitespace"}
	case hasPort && portName == "":
		return Port{}, &MalformedPortError{Ref: ref, Reason: "missing port name"}
	case strings.Contains(portName, "."):
		return Port{}, &MalformedPortError{Ref: ref, Reason: "too many components"}
	case strings.ContainsAny(portName, " \t"):
		return Port{}, &MalformedPortError{Ref: ref, Reason: "port name contains whitespace"}
	}
	return Port{Pass: passName, Name: portName}, nil
}

// Edge connects a source port to a destination port. Edges between two
// pass references express an execution dependency without data flow.
type Edge struct {
	Src Port
	Dst Port
}

func (e Edge) String() string {
	return e.Src.String() + " -> " + e.Dst.String()
}

func (e Edge) less(other Edge) bool {
	if e.Src != other.Src {
		return e.Src.less(other.Src)
	}
	return e.Dst.less(other.Dst)
}
