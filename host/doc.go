// Package host is the call surface the native engine drives.
//
// A Session is one execution domain: it owns an instance registry, a type
// resolver over the assemblies loaded into it, a proxy binder and a metadata
// exporter. Every entry point the native side needs (instance lifecycle,
// property access, method calls, component introspection, native function
// pointer exchange and metadata export) is a method on Session.
//
// Failures never cross the boundary as panics. Lifecycle methods return
// errors; data access and introspection methods log the problem and return
// a zero value or sentinel, which is what the native side expects.
package host
