package ports

// DocumentStore persists the serialized metadata document for the external
// code generator.
type DocumentStore interface {
	// Save writes the document, replacing any previous version.
	Save(document []byte) error

	// Load returns the last saved document.
	Load() ([]byte, error)

	// Path returns where the document is stored, for user messaging.
	Path() string
}
