package poemquiz

import "log"

// verboseMode gates the chatty per-question logging used by the CLI tools.
var verboseMode bool

// SetVerbose toggles verbose logging for the whole package.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// VerboseLog logs only when verbose mode is enabled.
func VerboseLog(format string, v ...interface{}) {
	if verboseMode {
		log.Printf("debug: "+format, v...)
	}
}
