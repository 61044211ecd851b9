package luckydraw

// Version is the release of the module, reported by the CLI and the HTTP host.
var Version = "0.3.0"
