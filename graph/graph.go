// Package graph builds the cross-reference graph for one parsed
// configuration document. The graph is created fresh per validation run,
// records edges in both directions and is never mutated by rule checks.
package graph

import (
	"fmt"
	"sort"

	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/report"
)

// NodeID identifies an entity as a section plus name pair.
type NodeID struct {
	Section string
	Name    string
}

// String renders the node as its document location.
func (id NodeID) String() string {
	return id.Section + "." + id.Name
}

// EdgeKind labels why one entity references another.
type EdgeKind string

const (
	// EdgeScheduleSource links a schedule to a source it polls.
	EdgeScheduleSource EdgeKind = "schedule-source"
	// EdgeScheduleChannel links a schedule to an explicitly selected channel.
	EdgeScheduleChannel EdgeKind = "schedule-channel"
	// EdgeScheduleTarget links a schedule to a sink it writes to.
	EdgeScheduleTarget EdgeKind = "schedule-target"
	// EdgeSourceAdapter links a source to its protocol adapter binding.
	EdgeSourceAdapter EdgeKind = "source-adapter"
	// EdgeAdapterType links a protocol adapter binding to its adapter type.
	EdgeAdapterType EdgeKind = "adapter-type"
	// EdgeTargetType links a target to its target type registration.
	EdgeTargetType EdgeKind = "target-type"
)

// Edge is one resolved reference between two entities.
type Edge struct {
	From NodeID
	To   NodeID
	Kind EdgeKind
	Soft bool
}

// Graph is the derived, read-only reference view of a document.
type Graph struct {
	out map[NodeID][]Edge
	in  map[NodeID][]Edge
}

// Outgoing returns the edges originating at the given node.
func (g *Graph) Outgoing(id NodeID) []Edge {
	return g.out[id]
}

// Incoming returns the edges pointing at the given node.
func (g *Graph) Incoming(id NodeID) []Edge {
	return g.in[id]
}

// Reachable walks outgoing edges from the given roots and returns every
// node visited, roots included.
func (g *Graph) Reachable(roots ...NodeID) map[NodeID]bool {
	visited := make(map[NodeID]bool)
	queue := append([]NodeID(nil), roots...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, edge := range g.out[current] {
			if !visited[edge.To] {
				queue = append(queue, edge.To)
			}
		}
	}
	return visited
}

func (g *Graph) addEdge(edge Edge) {
	g.out[edge.From] = append(g.out[edge.From], edge)
	g.in[edge.To] = append(g.in[edge.To], edge)
}

// Build resolves every reference field of the document into graph edges
// and reports unresolved references. Soft references (leading '#') demote
// to warnings.
func Build(doc *document.Document) (*Graph, []report.Diagnostic) {
	b := &builder{
		doc:   doc,
		graph: &Graph{out: map[NodeID][]Edge{}, in: map[NodeID][]Edge{}},
	}
	b.linkSchedules()
	b.linkSources()
	b.linkBindings()
	b.linkTargets()
	return b.graph, b.diags
}

type builder struct {
	doc   *document.Document
	graph *Graph
	diags []report.Diagnostic
}

func (b *builder) unresolved(section, entity, field string, ref document.Ref, wantSection string) {
	severity := report.SeverityError
	if ref.Soft {
		severity = report.SeverityWarning
	}
	b.diags = append(b.diags, report.Diagnostic{
		Severity: severity,
		Code:     report.CodeUnresolvedRef,
		Section:  section,
		Entity:   entity,
		Field:    field,
		Message:  fmt.Sprintf("reference %q does not resolve: no entry named %q in section %s", ref.String(), ref.Name, wantSection),
	})
}

func (b *builder) linkSchedules() {
	for _, name := range sortedScheduleNames(b.doc) {
		schedule := b.doc.Schedules[name]
		from := NodeID{Section: "Schedules", Name: name}

		for _, rawSource := range sortedKeys(schedule.Sources) {
			ref := document.ParseRef(rawSource)
			source, ok := b.doc.Sources[ref.Name]
			if !ok {
				b.unresolved("Schedules", name, "Sources."+ref.Name, ref, "Sources")
				continue
			}
			sourceNode := NodeID{Section: "Sources", Name: ref.Name}
			b.graph.addEdge(Edge{From: from, To: sourceNode, Kind: EdgeScheduleSource, Soft: ref.Soft})

			for _, selector := range schedule.Sources[rawSource] {
				if selector == "*" {
					continue
				}
				chRef := document.ParseRef(selector)
				if _, ok := source.Channels[chRef.Name]; !ok {
					b.unresolved("Schedules", name, fmt.Sprintf("Sources.%s.%s", ref.Name, chRef.Name), chRef, "Sources."+ref.Name+".Channels")
					continue
				}
				channelNode := NodeID{Section: "Channels", Name: ref.Name + "." + chRef.Name}
				b.graph.addEdge(Edge{From: from, To: channelNode, Kind: EdgeScheduleChannel, Soft: chRef.Soft})
			}
		}

		for _, ref := range schedule.Targets {
			if _, ok := b.doc.Targets[ref.Name]; !ok {
				b.unresolved("Schedules", name, "Targets."+ref.Name, ref, "Targets")
				continue
			}
			b.graph.addEdge(Edge{
				From: from,
				To:   NodeID{Section: "Targets", Name: ref.Name},
				Kind: EdgeScheduleTarget,
				Soft: ref.Soft,
			})
		}
	}
}

func (b *builder) linkSources() {
	for _, name := range sortedKeys(b.doc.Sources) {
		source := b.doc.Sources[name]
		if !source.Fields.Has("ProtocolAdapter") {
			continue
		}
		ref := document.ParseRef(source.ProtocolAdapter)
		if _, ok := b.doc.ProtocolAdapters[ref.Name]; !ok {
			b.unresolved("Sources", name, "ProtocolAdapter", ref, "ProtocolAdapters")
			continue
		}
		b.graph.addEdge(Edge{
			From: NodeID{Section: "Sources", Name: name},
			To:   NodeID{Section: "ProtocolAdapters", Name: ref.Name},
			Kind: EdgeSourceAdapter,
			Soft: ref.Soft,
		})
	}
}

func (b *builder) linkBindings() {
	for _, name := range sortedKeys(b.doc.ProtocolAdapters) {
		binding := b.doc.ProtocolAdapters[name]
		if !binding.Fields.Has("AdapterType") {
			continue
		}
		ref := document.ParseRef(binding.AdapterType)
		if _, ok := b.doc.AdapterTypes[ref.Name]; !ok {
			b.unresolved("ProtocolAdapters", name, "AdapterType", ref, "AdapterTypes")
			continue
		}
		b.graph.addEdge(Edge{
			From: NodeID{Section: "ProtocolAdapters", Name: name},
			To:   NodeID{Section: "AdapterTypes", Name: ref.Name},
			Kind: EdgeAdapterType,
			Soft: ref.Soft,
		})
	}
}

func (b *builder) linkTargets() {
	for _, name := range sortedKeys(b.doc.Targets) {
		target := b.doc.Targets[name]
		if !target.Fields.Has("TargetType") {
			continue
		}
		ref := document.ParseRef(target.TargetType)
		if _, ok := b.doc.TargetTypes[ref.Name]; !ok {
			b.unresolved("Targets", name, "TargetType", ref, "TargetTypes")
			continue
		}
		b.graph.addEdge(Edge{
			From: NodeID{Section: "Targets", Name: name},
			To:   NodeID{Section: "TargetTypes", Name: ref.Name},
			Kind: EdgeTargetType,
			Soft: ref.Soft,
		})
	}
}

func sortedScheduleNames(doc *document.Document) []string {
	names := make([]string, 0, len(doc.Schedules))
	for name := range doc.Schedules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
