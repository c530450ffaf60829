package citkit

// Version of the citkit tools.
const Version = "0.2.1"

// AppName is used for data and cache directory names.
const AppName = "citkit"

// UserAgent identifies the tools against external APIs.
const UserAgent = "citkit/" + Version
