// Package ports defines the interfaces the bridge uses to reach
// infrastructure: configuration parsers and metadata document storage.
// Adapters in infrastructure/ implement them.
package ports
