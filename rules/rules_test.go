package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/sfclint/catalog"
	"github.com/timzifer/sfclint/document"
	"github.com/timzifer/sfclint/graph"
	"github.com/timzifer/sfclint/report"
)

func inputFor(t *testing.T, raw string) Input {
	t.Helper()
	doc, diags := document.Parse([]byte(raw))
	for _, diag := range diags {
		require.NotEqual(t, report.CodeMalformedJSON, diag.Code, "fixture must parse")
	}
	g, _ := graph.Build(doc)
	return Input{Doc: doc, Graph: g, Catalog: catalog.Default()}
}

func findByCode(diags []report.Diagnostic, code string) []report.Diagnostic {
	var out []report.Diagnostic
	for _, diag := range diags {
		if diag.Code == code {
			out = append(out, diag)
		}
	}
	return out
}

func TestStructureCheckReportsMissingSections(t *testing.T) {
	in := inputFor(t, `{"Name": "Empty"}`)

	diags := structureCheck{}.Check(in)
	missing := findByCode(diags, report.CodeMissingField)
	require.Len(t, missing, 4)

	fields := make([]string, 0, len(missing))
	for _, diag := range missing {
		require.Equal(t, report.SeverityError, diag.Severity)
		require.Equal(t, catalog.SectionDocument, diag.Section)
		fields = append(fields, diag.Field)
	}
	require.ElementsMatch(t, []string{"AWSVersion", "Schedules", "Sources", "Targets"}, fields)
}

func TestStructureCheckReportsUnknownSectionsAsWarnings(t *testing.T) {
	in := inputFor(t, `{
		"AWSVersion": "2022-04-02",
		"Schedules": [{"Name": "M", "Interval": 100, "Sources": {"S": ["*"]}, "Targets": ["T"]}],
		"Sources": {"S": {"ProtocolAdapter": "A", "Channels": {"c": {}}}},
		"Targets": {"T": {"TargetType": "DEBUG-TARGET"}},
		"ProtocolAdapters": {"A": {"AdapterType": "SIMULATOR"}},
		"Pipelines": {}
	}`)

	diags := structureCheck{}.Check(in)
	unknown := findByCode(diags, report.CodeUnknownSection)
	require.Len(t, unknown, 1)
	require.Equal(t, report.SeverityWarning, unknown[0].Severity)
	require.Equal(t, "Pipelines", unknown[0].Field)
}

func TestStructureCheckReportsEmptyCoreSections(t *testing.T) {
	in := inputFor(t, `{
		"AWSVersion": "2022-04-02",
		"Schedules": [],
		"Sources": {},
		"Targets": {}
	}`)

	diags := structureCheck{}.Check(in)
	empty := findByCode(diags, report.CodeEmptySection)
	require.Len(t, empty, 3)
	for _, diag := range empty {
		require.Equal(t, report.SeverityError, diag.Severity)
	}
}

func TestStructureCheckReportsMissingEntityFields(t *testing.T) {
	in := inputFor(t, `{
		"AWSVersion": "2022-04-02",
		"Schedules": [{"Interval": 100, "Sources": {"S": ["*"]}, "Targets": ["T"]}],
		"Sources": {"S": {"Channels": {"c": {}}}},
		"Targets": {"T": {}},
		"TargetTypes": {"X": {"JarFiles": ["x.jar"]}}
	}`)

	diags := structureCheck{}.Check(in)
	missing := findByCode(diags, report.CodeMissingField)

	locations := make([]string, 0, len(missing))
	for _, diag := range missing {
		locations = append(locations, diag.Location())
	}
	require.Contains(t, locations, "Schedules.Schedule[0].Name")
	require.Contains(t, locations, "Sources.S.ProtocolAdapter")
	require.Contains(t, locations, "Targets.T.TargetType")
	require.Contains(t, locations, "TargetTypes.X.FactoryClassName")
}

func TestStructureCheckReportsScheduleWithoutSources(t *testing.T) {
	in := inputFor(t, `{
		"Schedules": [{"Name": "M", "Interval": 100, "Sources": {}, "Targets": ["T"]}],
		"Targets": {"T": {"TargetType": "DEBUG-TARGET"}}
	}`)

	diags := structureCheck{}.Check(in)
	empty := findByCode(diags, report.CodeEmptySection)
	require.Len(t, empty, 1)
	require.Equal(t, "Schedules.M.Sources", empty[0].Location())
}

func TestDuplicateCheck(t *testing.T) {
	in := inputFor(t, `{
		"Schedules": [
			{"Name": "M", "Interval": 100},
			{"Name": "M", "Interval": 200}
		]
	}`)

	diags := duplicateCheck{}.Check(in)
	require.Len(t, diags, 1)
	require.Equal(t, report.CodeDuplicateName, diags[0].Code)
	require.Equal(t, report.SeverityError, diags[0].Severity)
	require.Equal(t, "Schedules.M", diags[0].Location())
}

func TestEnumCheck(t *testing.T) {
	in := inputFor(t, `{
		"AWSVersion": "2099-01-01",
		"LogLevel": "Verbose",
		"Schedules": [{"Name": "M", "Interval": 100, "TimestampLevel": "Everything"}],
		"Sources": {"S": {"ProtocolAdapter": "A", "Channels": {
			"c": {"DataType": "Decimal", "Simulation": {"SimulationType": "Sawtooth", "DataType": "Double"}}
		}}}
	}`)

	diags := enumCheck{}.Check(in)
	invalid := findByCode(diags, report.CodeInvalidEnumValue)
	require.Len(t, invalid, 5)

	severities := map[string]report.Severity{}
	for _, diag := range invalid {
		severities[diag.Location()] = diag.Severity
	}
	// format version drift is tolerated with a warning
	require.Equal(t, report.SeverityWarning, severities["Document.AWSVersion"])
	require.Equal(t, report.SeverityError, severities["Document.LogLevel"])
	require.Equal(t, report.SeverityError, severities["Schedules.M.TimestampLevel"])
	require.Equal(t, report.SeverityError, severities["Sources.S.Channels.c.DataType"])
	require.Equal(t, report.SeverityError, severities["Sources.S.Channels.c.Simulation.SimulationType"])
}

func TestRangeCheck(t *testing.T) {
	in := inputFor(t, `{
		"Schedules": [{"Name": "M", "Interval": 0}],
		"Sources": {"S": {"ProtocolAdapter": "A", "Channels": {
			"c": {"Simulation": {"SimulationType": "Sinus", "Min": 10, "Max": 1}}
		}}},
		"Targets": {
			"File": {"TargetType": "FILE-TARGET", "Directory": "/d", "Extension": ".json", "BufferSize": -5},
			"Mqtt": {"TargetType": "MQTT-TARGET", "EndPoint": "host", "Port": 0, "TopicName": "t"}
		}
	}`)

	diags := rangeCheck{}.Check(in)
	invalid := findByCode(diags, report.CodeInvalidRange)
	require.Len(t, invalid, 4)

	locations := make([]string, 0, len(invalid))
	for _, diag := range invalid {
		require.Equal(t, report.SeverityError, diag.Severity)
		locations = append(locations, diag.Location())
	}
	require.ElementsMatch(t, []string{
		"Schedules.M.Interval",
		"Sources.S.Channels.c.Simulation.Min",
		"Targets.File.BufferSize",
		"Targets.Mqtt.Port",
	}, locations)
}

func TestTargetShapeCheck(t *testing.T) {
	in := inputFor(t, `{
		"Targets": {
			"File": {"TargetType": "FILE-TARGET", "Extension": ".json", "Color": "red", "BufferSize": "big"},
			"Custom": {"TargetType": "CUSTOM-TARGET"}
		},
		"ProtocolAdapters": {"A": {"AdapterType": "HOMEBREW"}}
	}`)

	diags := targetShapeCheck{}.Check(in)

	missing := findByCode(diags, report.CodeMissingTargetParam)
	require.Len(t, missing, 1)
	require.Equal(t, "Targets.File.Directory", missing[0].Location())
	require.Equal(t, report.SeverityError, missing[0].Severity)

	unknown := findByCode(diags, report.CodeUnknownTargetParam)
	require.Len(t, unknown, 1)
	require.Equal(t, "Targets.File.Color", unknown[0].Location())
	require.Equal(t, report.SeverityWarning, unknown[0].Severity)

	mismatch := findByCode(diags, report.CodeTypeMismatch)
	require.Len(t, mismatch, 1)
	require.Equal(t, "Targets.File.BufferSize", mismatch[0].Location())

	unknownTypes := findByCode(diags, report.CodeUnknownType)
	require.Len(t, unknownTypes, 2)
	for _, diag := range unknownTypes {
		require.Equal(t, report.SeverityWarning, diag.Severity)
	}
}

func TestRouteCheck(t *testing.T) {
	in := inputFor(t, `{
		"Targets": {
			"Router": {
				"TargetType": "ROUTER-TARGET",
				"Routes": [
					{"Condition": "value > 10", "TargetName": "File"},
					{"Condition": "value >>> 10", "TargetName": "File"},
					{"Condition": "value < 3", "TargetName": "Missing"},
					{"TargetName": "#AlsoMissing"}
				]
			},
			"File": {"TargetType": "DEBUG-TARGET"}
		}
	}`)

	diags := routeCheck{}.Check(in)

	badExpr := findByCode(diags, report.CodeInvalidExpression)
	require.Len(t, badExpr, 1)
	require.Equal(t, "Targets.Router.Routes[1].Condition", badExpr[0].Location())
	require.Equal(t, report.SeverityError, badExpr[0].Severity)

	unresolved := findByCode(diags, report.CodeUnresolvedRef)
	require.Len(t, unresolved, 2)
	severities := map[string]report.Severity{}
	for _, diag := range unresolved {
		severities[diag.Location()] = diag.Severity
	}
	require.Equal(t, report.SeverityError, severities["Targets.Router.Routes[2].TargetName"])
	require.Equal(t, report.SeverityWarning, severities["Targets.Router.Routes[3].TargetName"])
}

func TestActivityCheckReportsUndeliverableSchedules(t *testing.T) {
	in := inputFor(t, `{
		"Schedules": [{"Name": "M", "Interval": 100, "Sources": {"S": ["*"]}, "Targets": ["Off"]}],
		"Sources": {"S": {"ProtocolAdapter": "A", "Channels": {"c": {}}}},
		"Targets": {"Off": {"Active": false, "TargetType": "DEBUG-TARGET"}}
	}`)

	diags := activityCheck{}.Check(in)
	require.Len(t, diags, 1)
	require.Equal(t, report.CodeNoActiveTarget, diags[0].Code)
	require.Equal(t, report.SeverityError, diags[0].Severity)
	require.Equal(t, "Schedules.M.Targets", diags[0].Location())
}

func TestActivityCheckIgnoresSoftOnlySchedules(t *testing.T) {
	in := inputFor(t, `{
		"Schedules": [{"Name": "M", "Interval": 100, "Sources": {"S": ["*"]}, "Targets": ["#Gone"]}],
		"Sources": {"S": {"ProtocolAdapter": "A", "Channels": {"c": {}}}},
		"Targets": {"T": {"TargetType": "DEBUG-TARGET"}}
	}`)

	diags := activityCheck{}.Check(in)
	require.Empty(t, diags)
}

func TestActivityCheckInactiveScheduleWithoutTargetsIsInfo(t *testing.T) {
	in := inputFor(t, `{
		"Schedules": [{"Name": "M", "Interval": 100, "Active": false, "Sources": {}, "Targets": []}]
	}`)

	diags := activityCheck{}.Check(in)
	require.Len(t, diags, 1)
	require.Equal(t, report.CodeNoActiveTarget, diags[0].Code)
	require.Equal(t, report.SeverityInfo, diags[0].Severity)
}

func TestOrphanCheck(t *testing.T) {
	in := inputFor(t, `{
		"Schedules": [{"Name": "M", "Interval": 100, "Sources": {"Used": ["*"]}, "Targets": ["T"]}],
		"Sources": {
			"Used": {"ProtocolAdapter": "A", "Channels": {"c": {}}},
			"Unused": {"ProtocolAdapter": "A", "Channels": {}}
		},
		"Targets": {"T": {"TargetType": "DEBUG-TARGET"}},
		"ProtocolAdapters": {"A": {"AdapterType": "SIMULATOR"}}
	}`)

	diags := orphanCheck{}.Check(in)
	require.Len(t, diags, 1)
	require.Equal(t, report.CodeOrphanEntity, diags[0].Code)
	require.Equal(t, report.SeverityInfo, diags[0].Severity)
	require.Equal(t, "Sources.Unused", diags[0].Location())
}

func TestValidateRunsEveryCheck(t *testing.T) {
	doc, _ := document.Parse([]byte(`{
		"AWSVersion": "2022-04-02",
		"Schedules": [{"Name": "M", "Interval": 1000, "Sources": {"S": ["*"]}, "Targets": ["T"]}],
		"Sources": {"S": {"ProtocolAdapter": "A", "Channels": {"c": {"DataType": "Double"}}}},
		"Targets": {"T": {"TargetType": "DEBUG-TARGET"}},
		"TargetTypes": {"DEBUG-TARGET": {"JarFiles": ["d.jar"], "FactoryClassName": "D"}},
		"AdapterTypes": {"SIMULATOR": {"JarFiles": ["s.jar"], "FactoryClassName": "S"}},
		"ProtocolAdapters": {"A": {"AdapterType": "SIMULATOR"}}
	}`))
	g, refDiags := graph.Build(doc)
	require.Empty(t, refDiags)

	diags := Validate(doc, g, catalog.Default())
	for _, diag := range diags {
		require.NotEqual(t, report.SeverityError, diag.Severity, diag.Message)
	}
}
