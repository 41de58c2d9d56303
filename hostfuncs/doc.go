// Package hostfuncs exposes a bridge Session as a set of named, JSON-in
// JSON-out host functions. It has no WASM runtime dependency; the wazero
// adapter and any other byte-oriented host can dispatch into a
// HandlerRegistry built here.
package hostfuncs
