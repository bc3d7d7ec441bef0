package document

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind describes the JSON kind of a free-form parameter value.
type ValueKind int

const (
	// KindNull is a JSON null.
	KindNull ValueKind = iota
	// KindString is a JSON string.
	KindString
	// KindNumber is a JSON number.
	KindNumber
	// KindBool is a JSON boolean.
	KindBool
	// KindList is a JSON array.
	KindList
	// KindMap is a JSON object.
	KindMap
)

// String renders the kind for diagnostic messages.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a typed view of one free-form JSON value, used for target and
// adapter parameters whose legality is type-dependent.
type Value struct {
	Kind ValueKind
	Str  string
	Num  decimal.Decimal
	Bool bool
	List []Value
	Map  map[string]Value
}

// Ref is a named reference into another section. A leading '#' marks the
// reference as soft: its absence is tolerated.
type Ref struct {
	Name string
	Soft bool
}

// ParseRef splits the soft-reference marker off a raw reference string.
func ParseRef(raw string) Ref {
	if strings.HasPrefix(raw, "#") {
		return Ref{Name: strings.TrimPrefix(raw, "#"), Soft: true}
	}
	return Ref{Name: raw}
}

// String renders the reference in its wire form.
func (r Ref) String() string {
	if r.Soft {
		return "#" + r.Name
	}
	return r.Name
}

// Fields records which JSON keys were present on an entity. Rules use it to
// distinguish absent fields from zero values.
type Fields map[string]bool

// Has reports whether the named field appeared in the input.
func (f Fields) Has(name string) bool { return f[name] }

// Schedule is a named polling unit binding sources to targets.
type Schedule struct {
	Name           string
	Description    string
	Interval       decimal.Decimal
	Active         bool
	TimestampLevel string
	// Sources maps a source reference to its channel selectors; the
	// selector "*" means all channels.
	Sources map[string][]string
	Targets []Ref
	Fields  Fields
}

// Simulation configures a simulated channel value generator.
type Simulation struct {
	SimulationType string
	DataType       string
	Min            decimal.Decimal
	Max            decimal.Decimal
	Fields         Fields
}

// Channel is one data point read from a source.
type Channel struct {
	Name       string
	DataType   string
	Simulation *Simulation
	Fields     Fields
}

// Source is a named data origin.
type Source struct {
	Name            string
	Description     string
	ProtocolAdapter string
	Channels        map[string]Channel
	Fields          Fields
}

// Target is a named data sink. Type-specific parameters stay free-form and
// are checked against the catalog shape by the validation engine.
type Target struct {
	Active     bool
	TargetType string
	Params     map[string]Value
	Fields     Fields
}

// TypeRegistration binds a logical type identifier to a loadable module.
type TypeRegistration struct {
	JarFiles         []string
	FactoryClassName string
	Fields           Fields
}

// ProtocolAdapterBinding maps a logical adapter name to an adapter type.
type ProtocolAdapterBinding struct {
	AdapterType string
	Fields      Fields
}

// Document is the parsed configuration. It is immutable after the loader
// returns it.
type Document struct {
	AWSVersion  string
	Name        string
	Description string
	LogLevel    string

	Schedules        map[string]Schedule
	Sources          map[string]Source
	Targets          map[string]Target
	AdapterTypes     map[string]TypeRegistration
	TargetTypes      map[string]TypeRegistration
	ProtocolAdapters map[string]ProtocolAdapterBinding

	// Present records which top-level keys appeared in the input.
	Present Fields
	// UnknownSections lists top-level keys outside the schema catalog, in
	// input order.
	UnknownSections []string
	// Duplicates records names that appeared more than once within a
	// section; the loader keeps the first occurrence.
	Duplicates []Duplicate
}

// EntityCount returns the number of named entities across all sections,
// used for the defensive size limit.
func (d *Document) EntityCount() int {
	if d == nil {
		return 0
	}
	count := len(d.Schedules) + len(d.Sources) + len(d.Targets) +
		len(d.AdapterTypes) + len(d.TargetTypes) + len(d.ProtocolAdapters)
	for _, source := range d.Sources {
		count += len(source.Channels)
	}
	return count
}

func emptyDocument() *Document {
	return &Document{
		Schedules:        map[string]Schedule{},
		Sources:          map[string]Source{},
		Targets:          map[string]Target{},
		AdapterTypes:     map[string]TypeRegistration{},
		TargetTypes:      map[string]TypeRegistration{},
		ProtocolAdapters: map[string]ProtocolAdapterBinding{},
		Present:          Fields{},
	}
}
