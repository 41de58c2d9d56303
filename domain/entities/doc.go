// Package entities provides the core domain types shared by every layer of the
// bridge: instance identifiers, native handles, marshaling type tags, the
// component call surface, call arguments and the exported metadata document.
package entities
