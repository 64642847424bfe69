package schemagenius

// defaultClient backs the package-level convenience functions. The engine
// registries are immutable, so one shared client serves all callers.
var defaultClient = NewClient()

// Generate is a convenience function to parse input into the intermediate
// schema representation using the default client.
func Generate(inputData, inputType, sourceName string) (*Schema, error) {
	return defaultClient.Generate(inputData, inputType, sourceName)
}

// Convert is a convenience function to render an intermediate schema as DDL
// using the default client.
func Convert(schema *Schema, targetDB string) (string, error) {
	return defaultClient.Convert(schema, targetDB)
}

// GenerateDDL is a convenience function to parse input and render DDL for a
// target database in one call using the default client.
func GenerateDDL(inputData, inputType, sourceName, targetDB string) (string, error) {
	return defaultClient.GenerateDDL(inputData, inputType, sourceName, targetDB)
}

// InputFormats returns the input format names registered with the default
// client, sorted.
func InputFormats() []string {
	return defaultClient.InputFormats()
}

// TargetDialects returns the target dialect names registered with the
// default client, sorted.
func TargetDialects() []string {
	return defaultClient.TargetDialects()
}
