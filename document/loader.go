package document

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/timzifer/sfclint/report"
)

// Duplicate records a name that appeared more than once within a section.
// The loader keeps the first occurrence and leaves reporting to the
// validation engine.
type Duplicate struct {
	Section string
	Name    string
}

// Parse decodes a raw configuration document. It never fails outright: a
// document that is not well-formed JSON yields a single fatal diagnostic
// and an empty document, and every coercion failure is collected instead
// of aborting the parse.
func Parse(raw []byte) (*Document, []report.Diagnostic) {
	doc := emptyDocument()

	root, err := parseTree(raw)
	if err != nil {
		return doc, []report.Diagnostic{{
			Severity: report.SeverityError,
			Code:     report.CodeMalformedJSON,
			Message:  fmt.Sprintf("document is not well-formed JSON: %v", err),
		}}
	}
	if root.kind != nodeObject {
		return doc, []report.Diagnostic{{
			Severity: report.SeverityError,
			Code:     report.CodeMalformedJSON,
			Message:  fmt.Sprintf("top-level value must be an object, got %s", root.kind),
		}}
	}

	l := &loader{doc: doc}
	l.loadDocument(root)
	return doc, l.diags
}

type loader struct {
	doc   *Document
	diags []report.Diagnostic
}

func (l *loader) mismatch(section, entity, field string, want string, got nodeKind) {
	l.diags = append(l.diags, report.Diagnostic{
		Severity: report.SeverityError,
		Code:     report.CodeTypeMismatch,
		Section:  section,
		Entity:   entity,
		Field:    field,
		Message:  fmt.Sprintf("expected %s, got %s", want, got),
	})
}

func (l *loader) str(n *node, section, entity, field string) (string, bool) {
	if n.kind != nodeString {
		l.mismatch(section, entity, field, "string", n.kind)
		return "", false
	}
	return n.str, true
}

func (l *loader) boolean(n *node, section, entity, field string) (bool, bool) {
	if n.kind != nodeBool {
		l.mismatch(section, entity, field, "bool", n.kind)
		return false, false
	}
	return n.boolean, true
}

func (l *loader) number(n *node, section, entity, field string) (decimal.Decimal, bool) {
	if n.kind != nodeNumber {
		l.mismatch(section, entity, field, "number", n.kind)
		return decimal.Decimal{}, false
	}
	value, err := decimal.NewFromString(n.num.String())
	if err != nil {
		l.mismatch(section, entity, field, "number", n.kind)
		return decimal.Decimal{}, false
	}
	return value, true
}

func (l *loader) object(n *node, section, entity, field string) (*node, bool) {
	if n.kind != nodeObject {
		l.mismatch(section, entity, field, "map", n.kind)
		return nil, false
	}
	return n, true
}

func (l *loader) stringList(n *node, section, entity, field string) ([]string, bool) {
	if n.kind != nodeArray {
		l.mismatch(section, entity, field, "list", n.kind)
		return nil, false
	}
	out := make([]string, 0, len(n.items))
	for idx, item := range n.items {
		if item.kind != nodeString {
			l.mismatch(section, entity, fmt.Sprintf("%s[%d]", field, idx), "string", item.kind)
			continue
		}
		out = append(out, item.str)
	}
	return out, true
}

func (l *loader) loadDocument(root *node) {
	doc := l.doc
	for _, f := range root.fields {
		if doc.Present.Has(f.name) {
			doc.Duplicates = append(doc.Duplicates, Duplicate{Section: "Document", Name: f.name})
			continue
		}
		doc.Present[f.name] = true

		switch f.name {
		case "AWSVersion":
			if v, ok := l.str(f.value, "Document", "", f.name); ok {
				doc.AWSVersion = v
			}
		case "Name":
			if v, ok := l.str(f.value, "Document", "", f.name); ok {
				doc.Name = v
			}
		case "Description":
			if v, ok := l.str(f.value, "Document", "", f.name); ok {
				doc.Description = v
			}
		case "LogLevel":
			if v, ok := l.str(f.value, "Document", "", f.name); ok {
				doc.LogLevel = v
			}
		case "Schedules":
			l.loadSchedules(f.value)
		case "Sources":
			l.loadSources(f.value)
		case "Targets":
			l.loadTargets(f.value)
		case "AdapterTypes":
			doc.AdapterTypes = l.loadTypeRegistrations(f.value, "AdapterTypes")
		case "TargetTypes":
			doc.TargetTypes = l.loadTypeRegistrations(f.value, "TargetTypes")
		case "ProtocolAdapters":
			l.loadProtocolAdapters(f.value)
		default:
			doc.UnknownSections = append(doc.UnknownSections, f.name)
		}
	}
}

// loadSchedules accepts both wire forms: the original array of named
// schedule objects and a name-keyed map.
func (l *loader) loadSchedules(n *node) {
	switch n.kind {
	case nodeArray:
		for idx, item := range n.items {
			entity := fmt.Sprintf("Schedule[%d]", idx)
			obj, ok := l.object(item, "Schedules", entity, "")
			if !ok {
				continue
			}
			name := entity
			if nameNode, found := obj.lookup("Name"); found && nameNode.kind == nodeString && nameNode.str != "" {
				name = nameNode.str
			}
			l.storeSchedule(name, l.loadSchedule(obj, name))
		}
	case nodeObject:
		for _, f := range n.fields {
			obj, ok := l.object(f.value, "Schedules", f.name, "")
			if !ok {
				continue
			}
			schedule := l.loadSchedule(obj, f.name)
			// the map key supplies the name in this wire form
			schedule.Fields["Name"] = true
			l.storeSchedule(f.name, schedule)
		}
	default:
		l.mismatch("Document", "", "Schedules", "list", n.kind)
	}
}

func (l *loader) storeSchedule(name string, schedule Schedule) {
	if _, exists := l.doc.Schedules[name]; exists {
		l.doc.Duplicates = append(l.doc.Duplicates, Duplicate{Section: "Schedules", Name: name})
		return
	}
	l.doc.Schedules[name] = schedule
}

func (l *loader) loadSchedule(obj *node, name string) Schedule {
	schedule := Schedule{
		Name:    name,
		Active:  true,
		Sources: map[string][]string{},
		Fields:  Fields{},
	}
	for _, f := range obj.fields {
		if schedule.Fields.Has(f.name) {
			l.doc.Duplicates = append(l.doc.Duplicates, Duplicate{Section: "Schedules", Name: name + "." + f.name})
			continue
		}
		schedule.Fields[f.name] = true

		switch f.name {
		case "Name":
			// already resolved by the caller
		case "Description":
			if v, ok := l.str(f.value, "Schedules", name, f.name); ok {
				schedule.Description = v
			}
		case "Interval":
			if v, ok := l.number(f.value, "Schedules", name, f.name); ok {
				schedule.Interval = v
			} else {
				delete(schedule.Fields, f.name)
			}
		case "Active":
			if v, ok := l.boolean(f.value, "Schedules", name, f.name); ok {
				schedule.Active = v
			}
		case "TimestampLevel":
			if v, ok := l.str(f.value, "Schedules", name, f.name); ok {
				schedule.TimestampLevel = v
			}
		case "Sources":
			sources, ok := l.object(f.value, "Schedules", name, f.name)
			if !ok {
				delete(schedule.Fields, f.name)
				continue
			}
			for _, src := range sources.fields {
				selectors, ok := l.stringList(src.value, "Schedules", name, "Sources."+src.name)
				if !ok {
					continue
				}
				schedule.Sources[src.name] = selectors
			}
		case "Targets":
			refs, ok := l.stringList(f.value, "Schedules", name, f.name)
			if !ok {
				delete(schedule.Fields, f.name)
				continue
			}
			for _, raw := range refs {
				schedule.Targets = append(schedule.Targets, ParseRef(raw))
			}
		}
	}
	return schedule
}

func (l *loader) loadSources(n *node) {
	obj, ok := l.object(n, "Document", "", "Sources")
	if !ok {
		return
	}
	for _, f := range obj.fields {
		if _, exists := l.doc.Sources[f.name]; exists {
			l.doc.Duplicates = append(l.doc.Duplicates, Duplicate{Section: "Sources", Name: f.name})
			continue
		}
		entity, ok := l.object(f.value, "Sources", f.name, "")
		if !ok {
			continue
		}
		l.doc.Sources[f.name] = l.loadSource(entity, f.name)
	}
}

func (l *loader) loadSource(obj *node, name string) Source {
	source := Source{Channels: map[string]Channel{}, Fields: Fields{}}
	for _, f := range obj.fields {
		source.Fields[f.name] = true
		switch f.name {
		case "Name":
			if v, ok := l.str(f.value, "Sources", name, f.name); ok {
				source.Name = v
			}
		case "Description":
			if v, ok := l.str(f.value, "Sources", name, f.name); ok {
				source.Description = v
			}
		case "ProtocolAdapter":
			if v, ok := l.str(f.value, "Sources", name, f.name); ok {
				source.ProtocolAdapter = v
			} else {
				delete(source.Fields, f.name)
			}
		case "Channels":
			channels, ok := l.object(f.value, "Sources", name, f.name)
			if !ok {
				delete(source.Fields, f.name)
				continue
			}
			for _, ch := range channels.fields {
				if _, exists := source.Channels[ch.name]; exists {
					l.doc.Duplicates = append(l.doc.Duplicates, Duplicate{Section: "Sources", Name: name + ".Channels." + ch.name})
					continue
				}
				chObj, ok := l.object(ch.value, "Sources", name, "Channels."+ch.name)
				if !ok {
					continue
				}
				source.Channels[ch.name] = l.loadChannel(chObj, name, ch.name)
			}
		}
	}
	return source
}

func (l *loader) loadChannel(obj *node, sourceName, channelName string) Channel {
	channel := Channel{Fields: Fields{}}
	path := "Channels." + channelName
	for _, f := range obj.fields {
		channel.Fields[f.name] = true
		switch f.name {
		case "Name":
			if v, ok := l.str(f.value, "Sources", sourceName, path+".Name"); ok {
				channel.Name = v
			}
		case "DataType":
			if v, ok := l.str(f.value, "Sources", sourceName, path+".DataType"); ok {
				channel.DataType = v
			}
		case "Simulation":
			simObj, ok := l.object(f.value, "Sources", sourceName, path+".Simulation")
			if !ok {
				delete(channel.Fields, f.name)
				continue
			}
			channel.Simulation = l.loadSimulation(simObj, sourceName, path+".Simulation")
		}
	}
	return channel
}

func (l *loader) loadSimulation(obj *node, sourceName, path string) *Simulation {
	sim := &Simulation{Fields: Fields{}}
	for _, f := range obj.fields {
		sim.Fields[f.name] = true
		switch f.name {
		case "SimulationType":
			if v, ok := l.str(f.value, "Sources", sourceName, path+".SimulationType"); ok {
				sim.SimulationType = v
			}
		case "DataType":
			if v, ok := l.str(f.value, "Sources", sourceName, path+".DataType"); ok {
				sim.DataType = v
			}
		case "Min":
			if v, ok := l.number(f.value, "Sources", sourceName, path+".Min"); ok {
				sim.Min = v
			} else {
				delete(sim.Fields, f.name)
			}
		case "Max":
			if v, ok := l.number(f.value, "Sources", sourceName, path+".Max"); ok {
				sim.Max = v
			} else {
				delete(sim.Fields, f.name)
			}
		}
	}
	return sim
}

func (l *loader) loadTargets(n *node) {
	obj, ok := l.object(n, "Document", "", "Targets")
	if !ok {
		return
	}
	for _, f := range obj.fields {
		if _, exists := l.doc.Targets[f.name]; exists {
			l.doc.Duplicates = append(l.doc.Duplicates, Duplicate{Section: "Targets", Name: f.name})
			continue
		}
		entity, ok := l.object(f.value, "Targets", f.name, "")
		if !ok {
			continue
		}
		l.doc.Targets[f.name] = l.loadTarget(entity, f.name)
	}
}

func (l *loader) loadTarget(obj *node, name string) Target {
	target := Target{Active: true, Params: map[string]Value{}, Fields: Fields{}}
	for _, f := range obj.fields {
		if target.Fields.Has(f.name) {
			l.doc.Duplicates = append(l.doc.Duplicates, Duplicate{Section: "Targets", Name: name + "." + f.name})
			continue
		}
		target.Fields[f.name] = true

		switch f.name {
		case "Active":
			if v, ok := l.boolean(f.value, "Targets", name, f.name); ok {
				target.Active = v
			}
		case "TargetType":
			if v, ok := l.str(f.value, "Targets", name, f.name); ok {
				target.TargetType = v
			} else {
				delete(target.Fields, f.name)
			}
		case "Name", "Description":
			// display only, tolerated on every target
			if _, ok := l.str(f.value, "Targets", name, f.name); !ok {
				delete(target.Fields, f.name)
			}
		default:
			target.Params[f.name] = valueOf(f.value)
		}
	}
	return target
}

func (l *loader) loadTypeRegistrations(n *node, section string) map[string]TypeRegistration {
	out := map[string]TypeRegistration{}
	obj, ok := l.object(n, "Document", "", section)
	if !ok {
		return out
	}
	for _, f := range obj.fields {
		if _, exists := out[f.name]; exists {
			l.doc.Duplicates = append(l.doc.Duplicates, Duplicate{Section: section, Name: f.name})
			continue
		}
		entity, ok := l.object(f.value, section, f.name, "")
		if !ok {
			continue
		}
		reg := TypeRegistration{Fields: Fields{}}
		for _, rf := range entity.fields {
			reg.Fields[rf.name] = true
			switch rf.name {
			case "JarFiles":
				if v, ok := l.stringList(rf.value, section, f.name, rf.name); ok {
					reg.JarFiles = v
				} else {
					delete(reg.Fields, rf.name)
				}
			case "FactoryClassName":
				if v, ok := l.str(rf.value, section, f.name, rf.name); ok {
					reg.FactoryClassName = v
				} else {
					delete(reg.Fields, rf.name)
				}
			}
		}
		out[f.name] = reg
	}
	return out
}

func (l *loader) loadProtocolAdapters(n *node) {
	obj, ok := l.object(n, "Document", "", "ProtocolAdapters")
	if !ok {
		return
	}
	for _, f := range obj.fields {
		if _, exists := l.doc.ProtocolAdapters[f.name]; exists {
			l.doc.Duplicates = append(l.doc.Duplicates, Duplicate{Section: "ProtocolAdapters", Name: f.name})
			continue
		}
		entity, ok := l.object(f.value, "ProtocolAdapters", f.name, "")
		if !ok {
			continue
		}
		binding := ProtocolAdapterBinding{Fields: Fields{}}
		for _, bf := range entity.fields {
			binding.Fields[bf.name] = true
			if bf.name == "AdapterType" {
				if v, ok := l.str(bf.value, "ProtocolAdapters", f.name, bf.name); ok {
					binding.AdapterType = v
				} else {
					delete(binding.Fields, bf.name)
				}
			}
		}
		l.doc.ProtocolAdapters[f.name] = binding
	}
}

func valueOf(n *node) Value {
	switch n.kind {
	case nodeString:
		return Value{Kind: KindString, Str: n.str}
	case nodeBool:
		return Value{Kind: KindBool, Bool: n.boolean}
	case nodeNumber:
		num, err := decimal.NewFromString(n.num.String())
		if err != nil {
			return Value{Kind: KindNull}
		}
		return Value{Kind: KindNumber, Num: num}
	case nodeArray:
		items := make([]Value, 0, len(n.items))
		for _, item := range n.items {
			items = append(items, valueOf(item))
		}
		return Value{Kind: KindList, List: items}
	case nodeObject:
		fields := make(map[string]Value, len(n.fields))
		for _, f := range n.fields {
			if _, exists := fields[f.name]; exists {
				continue
			}
			fields[f.name] = valueOf(f.value)
		}
		return Value{Kind: KindMap, Map: fields}
	default:
		return Value{Kind: KindNull}
	}
}
