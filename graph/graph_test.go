package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/report"
)

func parseDoc(t *testing.T, raw string) *document.Document {
	t.Helper()
	doc, diags := document.Parse([]byte(raw))
	require.Empty(t, diags)
	return doc
}

func TestBuildResolvesReferences(t *testing.T) {
	doc := parseDoc(t, `{
		"Schedules": [{"Name": "Main", "Interval": 1000, "Sources": {"Sim": ["sinus"]}, "Targets": ["File"]}],
		"Sources": {"Sim": {"ProtocolAdapter": "SimAdapter", "Channels": {"sinus": {"DataType": "Double"}}}},
		"Targets": {"File": {"TargetType": "FILE-TARGET", "Directory": "/d", "Extension": ".json"}},
		"TargetTypes": {"FILE-TARGET": {"JarFiles": ["f.jar"], "FactoryClassName": "F"}},
		"AdapterTypes": {"SIMULATOR": {"JarFiles": ["s.jar"], "FactoryClassName": "S"}},
		"ProtocolAdapters": {"SimAdapter": {"AdapterType": "SIMULATOR"}}
	}`)

	g, diags := Build(doc)
	require.Empty(t, diags)

	schedule := NodeID{Section: "Schedules", Name: "Main"}
	out := g.Outgoing(schedule)
	require.Len(t, out, 3)

	kinds := map[EdgeKind]NodeID{}
	for _, edge := range out {
		kinds[edge.Kind] = edge.To
	}
	require.Equal(t, NodeID{Section: "Sources", Name: "Sim"}, kinds[EdgeScheduleSource])
	require.Equal(t, NodeID{Section: "Channels", Name: "Sim.sinus"}, kinds[EdgeScheduleChannel])
	require.Equal(t, NodeID{Section: "Targets", Name: "File"}, kinds[EdgeScheduleTarget])

	incoming := g.Incoming(NodeID{Section: "Targets", Name: "File"})
	require.Len(t, incoming, 1)
	require.Equal(t, schedule, incoming[0].From)

	reached := g.Reachable(schedule)
	require.True(t, reached[NodeID{Section: "AdapterTypes", Name: "SIMULATOR"}])
	require.True(t, reached[NodeID{Section: "TargetTypes", Name: "FILE-TARGET"}])
	require.True(t, reached[NodeID{Section: "ProtocolAdapters", Name: "SimAdapter"}])
}

func TestBuildReportsUnresolvedReferences(t *testing.T) {
	doc := parseDoc(t, `{
		"Schedules": [{"Name": "Main", "Interval": 1000, "Sources": {"Ghost": ["*"]}, "Targets": ["Missing"]}],
		"Sources": {"Sim": {"ProtocolAdapter": "NoAdapter", "Channels": {}}},
		"Targets": {"File": {"TargetType": "NO-TYPE"}},
		"ProtocolAdapters": {"Bound": {"AdapterType": "NoSuchType"}}
	}`)

	_, diags := Build(doc)
	require.Len(t, diags, 5)
	locations := make(map[string]report.Severity, len(diags))
	for _, diag := range diags {
		require.Equal(t, report.CodeUnresolvedRef, diag.Code)
		locations[diag.Location()] = diag.Severity
	}
	require.Equal(t, report.SeverityError, locations["Schedules.Main.Sources.Ghost"])
	require.Equal(t, report.SeverityError, locations["Schedules.Main.Targets.Missing"])
	require.Equal(t, report.SeverityError, locations["Sources.Sim.ProtocolAdapter"])
	require.Equal(t, report.SeverityError, locations["Targets.File.TargetType"])
	require.Equal(t, report.SeverityError, locations["ProtocolAdapters.Bound.AdapterType"])
}

func TestBuildDemotesSoftReferencesToWarnings(t *testing.T) {
	doc := parseDoc(t, `{
		"Schedules": [{"Name": "Main", "Interval": 1000, "Sources": {}, "Targets": ["#Gone", "File"]}],
		"Targets": {"File": {"TargetType": "FILE-TARGET", "Directory": "/d", "Extension": ".json"}}
	}`)

	g, diags := Build(doc)
	require.Len(t, diags, 1)
	require.Equal(t, report.CodeUnresolvedRef, diags[0].Code)
	require.Equal(t, report.SeverityWarning, diags[0].Severity)
	require.Contains(t, diags[0].Message, `"#Gone"`)

	// the resolvable hard reference still produced its edge
	out := g.Outgoing(NodeID{Section: "Schedules", Name: "Main"})
	require.Len(t, out, 1)
	require.False(t, out[0].Soft)
}

func TestBuildResolvedSoftReferencesKeepSoftEdges(t *testing.T) {
	doc := parseDoc(t, `{
		"Schedules": [{"Name": "Main", "Interval": 1000, "Sources": {}, "Targets": ["#Debug"]}],
		"Targets": {"Debug": {"TargetType": "DEBUG-TARGET"}}
	}`)

	g, diags := Build(doc)
	require.Empty(t, diags)

	out := g.Outgoing(NodeID{Section: "Schedules", Name: "Main"})
	require.Len(t, out, 1)
	require.True(t, out[0].Soft)
	require.Equal(t, NodeID{Section: "Targets", Name: "Debug"}, out[0].To)
}

func TestUnknownChannelSelectorIsReported(t *testing.T) {
	doc := parseDoc(t, `{
		"Schedules": [{"Name": "Main", "Interval": 1000, "Sources": {"Sim": ["nope"]}, "Targets": []}],
		"Sources": {"Sim": {"ProtocolAdapter": "A", "Channels": {"sinus": {"DataType": "Double"}}}},
		"ProtocolAdapters": {"A": {"AdapterType": "SIMULATOR"}}
	}`)

	_, diags := Build(doc)
	require.Len(t, diags, 1)
	require.Equal(t, "Schedules.Main.Sources.Sim.nope", diags[0].Location())
	require.Equal(t, report.SeverityError, diags[0].Severity)
}
