package catalog

import (
	"sort"
	"sync"
)

// ParamKind describes the JSON kind expected for a configuration parameter.
type ParamKind string

const (
	// ParamString expects a JSON string.
	ParamString ParamKind = "string"
	// ParamNumber expects a JSON number.
	ParamNumber ParamKind = "number"
	// ParamBool expects a JSON boolean.
	ParamBool ParamKind = "bool"
	// ParamList expects a JSON array.
	ParamList ParamKind = "list"
	// ParamMap expects a JSON object.
	ParamMap ParamKind = "map"
)

// FieldSpec describes one field of a section entity.
type FieldSpec struct {
	Name     string
	Kind     ParamKind
	Required bool
	// Enum names the value domain the field must belong to, if any.
	Enum string
}

// ParamSpec describes one type-specific parameter of a target.
type ParamSpec struct {
	Name     string
	Kind     ParamKind
	Required bool
}

// TargetShape declares the legal parameter set for a target type.
type TargetShape struct {
	Description string
	// Streaming marks near-real-time sinks where missing buffering is an
	// advisory finding.
	Streaming bool
	Params    map[string]ParamSpec
}

// RequiredParams returns the names of required parameters, sorted.
func (s TargetShape) RequiredParams() []string {
	names := make([]string, 0, len(s.Params))
	for name, spec := range s.Params {
		if spec.Required {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// AdapterInfo is a registry entry for a known protocol adapter type.
type AdapterInfo struct {
	Description string
	DefaultPort int
}

// Section names used for schema lookups and diagnostic locations.
const (
	SectionDocument         = "Document"
	SectionSchedules        = "Schedules"
	SectionSources          = "Sources"
	SectionTargets          = "Targets"
	SectionAdapterTypes     = "AdapterTypes"
	SectionTargetTypes      = "TargetTypes"
	SectionProtocolAdapters = "ProtocolAdapters"
)

// Enum domain names.
const (
	DomainLogLevel       = "LogLevel"
	DomainTimestampLevel = "TimestampLevel"
	DomainDataType       = "DataType"
	DomainSimulationType = "SimulationType"
	DomainAWSVersion     = "AWSVersion"
)

// Catalog is the static schema knowledge used by the validation engine and
// the advisor. It is read-only after construction and safe for concurrent
// use without synchronization.
type Catalog struct {
	enums    map[string]map[string]struct{}
	sections map[string][]FieldSpec
	adapters map[string]AdapterInfo
	targets  map[string]TargetShape
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog built from the embedded
// knowledge. The value is constructed once and never mutated.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = buildDefault()
	})
	return defaultCatalog
}

// SectionSchema returns the field specs for a section. The boolean reports
// whether the section is known; unknown sections are a finding for the
// caller, not a catalog failure.
func (c *Catalog) SectionSchema(section string) ([]FieldSpec, bool) {
	specs, ok := c.sections[section]
	if !ok {
		return nil, false
	}
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out, true
}

// KnownSections returns all section names with a schema, sorted.
func (c *Catalog) KnownSections() []string {
	names := make([]string, 0, len(c.sections))
	for name := range c.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnownEnum reports whether value belongs to the named domain. An unknown
// domain yields false for every value.
func (c *Catalog) IsKnownEnum(domain, value string) bool {
	values, ok := c.enums[domain]
	if !ok {
		return false
	}
	_, ok = values[value]
	return ok
}

// HasEnumDomain reports whether the domain itself is known.
func (c *Catalog) HasEnumDomain(domain string) bool {
	_, ok := c.enums[domain]
	return ok
}

// EnumValues returns the members of a domain, sorted for stable messages.
func (c *Catalog) EnumValues(domain string) []string {
	values, ok := c.enums[domain]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// AdapterType looks up a known protocol adapter type identifier.
func (c *Catalog) AdapterType(name string) (AdapterInfo, bool) {
	info, ok := c.adapters[name]
	return info, ok
}

// TargetType looks up the declared parameter shape for a target type.
func (c *Catalog) TargetType(name string) (TargetShape, bool) {
	shape, ok := c.targets[name]
	return shape, ok
}

// KnownAdapterTypes returns the known adapter type identifiers, sorted.
func (c *Catalog) KnownAdapterTypes() []string {
	names := make([]string, 0, len(c.adapters))
	for name := range c.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownTargetTypes returns the known target type identifiers, sorted.
func (c *Catalog) KnownTargetTypes() []string {
	names := make([]string, 0, len(c.targets))
	for name := range c.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) clone() *Catalog {
	dst := &Catalog{
		enums:    make(map[string]map[string]struct{}, len(c.enums)),
		sections: make(map[string][]FieldSpec, len(c.sections)),
		adapters: make(map[string]AdapterInfo, len(c.adapters)),
		targets:  make(map[string]TargetShape, len(c.targets)),
	}
	for domain, values := range c.enums {
		set := make(map[string]struct{}, len(values))
		for v := range values {
			set[v] = struct{}{}
		}
		dst.enums[domain] = set
	}
	for section, specs := range c.sections {
		copied := make([]FieldSpec, len(specs))
		copy(copied, specs)
		dst.sections[section] = copied
	}
	for name, info := range c.adapters {
		dst.adapters[name] = info
	}
	for name, shape := range c.targets {
		params := make(map[string]ParamSpec, len(shape.Params))
		for p, spec := range shape.Params {
			params[p] = spec
		}
		shape.Params = params
		dst.targets[name] = shape
	}
	return dst
}

func enumSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func shapeParams(specs ...ParamSpec) map[string]ParamSpec {
	params := make(map[string]ParamSpec, len(specs))
	for _, spec := range specs {
		params[spec.Name] = spec
	}
	return params
}

func required(name string, kind ParamKind) ParamSpec {
	return ParamSpec{Name: name, Kind: kind, Required: true}
}

func optional(name string, kind ParamKind) ParamSpec {
	return ParamSpec{Name: name, Kind: kind}
}
