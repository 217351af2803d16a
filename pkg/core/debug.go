package core

// DebugMode controls whether build errors capture stack traces.
var DebugMode = true

// SetDebugMode enables or disables debug mode for the framework.
func SetDebugMode(debug bool) {
	DebugMode = debug
}
