package ir

// Version constants for the instruction schema and the tool.
const (
	// IRVersion is the instruction schema version.
	IRVersion = "1"

	// ToolVersion is the opload version.
	ToolVersion = "0.1.0"
)
