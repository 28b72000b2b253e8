package readex

// Version is the current release of this module.
const Version = "0.1.0"
