package catalog

// ExpectedAWSVersion is the configuration format version the runtime
// understands.
const ExpectedAWSVersion = "2022-04-02"

func buildDefault() *Catalog {
	return &Catalog{
		enums: map[string]map[string]struct{}{
			DomainLogLevel:       enumSet("Error", "Warning", "Info", "Trace"),
			DomainTimestampLevel: enumSet("None", "Source", "Target", "Both"),
			DomainDataType: enumSet(
				"Byte", "Short", "Int", "Long",
				"Float", "Double", "Boolean", "String",
			),
			DomainSimulationType: enumSet("Counter", "Sinus", "Triangle", "Square", "Random"),
			DomainAWSVersion:     enumSet(ExpectedAWSVersion),
		},
		sections: map[string][]FieldSpec{
			SectionDocument: {
				{Name: "AWSVersion", Kind: ParamString, Required: true, Enum: DomainAWSVersion},
				{Name: "Name", Kind: ParamString},
				{Name: "Description", Kind: ParamString},
				{Name: "LogLevel", Kind: ParamString, Enum: DomainLogLevel},
				{Name: "Schedules", Kind: ParamList, Required: true},
				{Name: "Sources", Kind: ParamMap, Required: true},
				{Name: "Targets", Kind: ParamMap, Required: true},
				{Name: "AdapterTypes", Kind: ParamMap},
				{Name: "TargetTypes", Kind: ParamMap},
				{Name: "ProtocolAdapters", Kind: ParamMap},
			},
			SectionSchedules: {
				{Name: "Name", Kind: ParamString, Required: true},
				{Name: "Description", Kind: ParamString},
				{Name: "Interval", Kind: ParamNumber, Required: true},
				{Name: "Active", Kind: ParamBool},
				{Name: "TimestampLevel", Kind: ParamString, Enum: DomainTimestampLevel},
				{Name: "Sources", Kind: ParamMap, Required: true},
				{Name: "Targets", Kind: ParamList, Required: true},
			},
			SectionSources: {
				{Name: "Name", Kind: ParamString},
				{Name: "Description", Kind: ParamString},
				{Name: "ProtocolAdapter", Kind: ParamString, Required: true},
				{Name: "Channels", Kind: ParamMap, Required: true},
			},
			SectionTargets: {
				{Name: "Name", Kind: ParamString},
				{Name: "Description", Kind: ParamString},
				{Name: "Active", Kind: ParamBool},
				{Name: "TargetType", Kind: ParamString, Required: true},
			},
			SectionAdapterTypes: {
				{Name: "JarFiles", Kind: ParamList, Required: true},
				{Name: "FactoryClassName", Kind: ParamString, Required: true},
			},
			SectionTargetTypes: {
				{Name: "JarFiles", Kind: ParamList, Required: true},
				{Name: "FactoryClassName", Kind: ParamString, Required: true},
			},
			SectionProtocolAdapters: {
				{Name: "AdapterType", Kind: ParamString, Required: true},
			},
		},
		adapters: map[string]AdapterInfo{
			"OPCUA":     {Description: "OPC Unified Architecture", DefaultPort: 4840},
			"OPCDA":     {Description: "OPC Data Access"},
			"MODBUS":    {Description: "Modbus TCP/IP", DefaultPort: 502},
			"S7":        {Description: "Siemens S7 Communication", DefaultPort: 102},
			"MQTT":      {Description: "Message Queuing Telemetry Transport", DefaultPort: 1883},
			"REST":      {Description: "RESTful HTTP API", DefaultPort: 80},
			"SQL":       {Description: "SQL Database", DefaultPort: 1433},
			"SNMP":      {Description: "Simple Network Management Protocol", DefaultPort: 161},
			"PCCC":      {Description: "Allen-Bradley Rockwell PCCC", DefaultPort: 44818},
			"ADS":       {Description: "Beckhoff ADS", DefaultPort: 48898},
			"J1939":     {Description: "Vehicle CAN Bus Protocol"},
			"SLMP":      {Description: "Mitsubishi/Melsec SLMP", DefaultPort: 5007},
			"NATS":      {Description: "NATS Messaging", DefaultPort: 4222},
			"SIMULATOR": {Description: "Data Simulator"},
		},
		targets: map[string]TargetShape{
			"DEBUG-TARGET": {
				Description: "Debug Terminal",
				Params:      shapeParams(),
			},
			"FILE-TARGET": {
				Description: "File System",
				Params: shapeParams(
					required("Directory", ParamString),
					required("Extension", ParamString),
					optional("FilenameTemplate", ParamString),
					optional("Interval", ParamNumber),
					optional("BufferSize", ParamNumber),
				),
			},
			"MQTT-TARGET": {
				Description: "MQTT Broker",
				Params: shapeParams(
					required("EndPoint", ParamString),
					required("Port", ParamNumber),
					required("TopicName", ParamString),
					optional("QoS", ParamNumber),
					optional("ConnectionTimeout", ParamNumber),
				),
			},
			"NATS-TARGET": {
				Description: "NATS Server",
				Params: shapeParams(
					required("EndPoint", ParamString),
					required("Port", ParamNumber),
					required("Subject", ParamString),
				),
			},
			"OPCUA-TARGET": {
				Description: "OPC-UA Server",
				Params: shapeParams(
					required("EndPoint", ParamString),
					optional("NodeNames", ParamMap),
				),
			},
			"OPCUA-WRITER": {
				Description: "OPC-UA Writer",
				Params: shapeParams(
					required("EndPoint", ParamString),
					optional("NodeIds", ParamMap),
				),
			},
			"ROUTER-TARGET": {
				Description: "Result Router",
				Params: shapeParams(
					required("Routes", ParamList),
				),
			},
			"AWS-S3": {
				Description: "Amazon S3",
				Params: shapeParams(
					required("Region", ParamString),
					required("BucketName", ParamString),
					optional("Interval", ParamNumber),
					optional("BufferSize", ParamNumber),
					optional("Prefix", ParamString),
					optional("Compression", ParamString),
				),
			},
			"AWS-IOT-CORE": {
				Description: "AWS IoT Core",
				Streaming:   true,
				Params: shapeParams(
					required("Region", ParamString),
					required("TopicName", ParamString),
					optional("BatchSize", ParamNumber),
					optional("BatchCount", ParamNumber),
					optional("BatchInterval", ParamNumber),
				),
			},
			"AWS-KINESIS": {
				Description: "Amazon Kinesis",
				Streaming:   true,
				Params: shapeParams(
					required("Region", ParamString),
					required("StreamName", ParamString),
					optional("BatchSize", ParamNumber),
					optional("Interval", ParamNumber),
				),
			},
			"AWS-KINESIS-FIREHOSE": {
				Description: "Amazon Kinesis Data Firehose",
				Params: shapeParams(
					required("Region", ParamString),
					required("DeliveryStreamName", ParamString),
					optional("BatchSize", ParamNumber),
					optional("Interval", ParamNumber),
				),
			},
			"AWS-LAMBDA": {
				Description: "AWS Lambda",
				Params: shapeParams(
					required("Region", ParamString),
					required("FunctionName", ParamString),
					optional("BatchSize", ParamNumber),
					optional("Interval", ParamNumber),
				),
			},
			"AWS-SNS": {
				Description: "Amazon SNS",
				Params: shapeParams(
					required("Region", ParamString),
					required("TopicArn", ParamString),
					optional("BatchSize", ParamNumber),
					optional("Interval", ParamNumber),
				),
			},
			"AWS-SQS": {
				Description: "Amazon SQS",
				Params: shapeParams(
					required("Region", ParamString),
					required("QueueUrl", ParamString),
					optional("BatchSize", ParamNumber),
					optional("Interval", ParamNumber),
				),
			},
			"AWS-TIMESTREAM": {
				Description: "Amazon Timestream",
				Params: shapeParams(
					required("Region", ParamString),
					required("DatabaseName", ParamString),
					required("TableName", ParamString),
					optional("BatchSize", ParamNumber),
					optional("Interval", ParamNumber),
				),
			},
			"AWS-SITEWISE": {
				Description: "AWS IoT SiteWise",
				Streaming:   true,
				Params: shapeParams(
					required("Region", ParamString),
					optional("BatchSize", ParamNumber),
					optional("Interval", ParamNumber),
					optional("PropertyAliases", ParamMap),
				),
			},
			"AWS-MSK": {
				Description: "Amazon MSK",
				Streaming:   true,
				Params: shapeParams(
					required("Region", ParamString),
					required("BootstrapServers", ParamString),
					required("Topic", ParamString),
					optional("BatchSize", ParamNumber),
					optional("Interval", ParamNumber),
					optional("SecurityProtocol", ParamString),
				),
			},
		},
	}
}
