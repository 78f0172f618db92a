package transitions

// Version is the library version, overridable at build time with -ldflags.
var Version = "0.1.0"
