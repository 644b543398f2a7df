package arbor

// Version is the current release of the library and CLI.
const Version = "0.3.0"
