package main

// GlobalFlags holds persistent flags shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

// StartFlags holds flags for `simulator start`.
type StartFlags struct {
	Background    bool
	LogToFile     bool
	LogFile       string
	MetricsListen string
}

// StatusFlags holds flags for `simulator status`.
type StatusFlags struct {
	JSON bool
}
