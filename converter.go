package articlemd

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., one block element's markup).
	Convert(html string) (string, error)
}
