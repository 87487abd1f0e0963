package port

// Document is the root element the presentation layer reads: data attributes,
// classes and CSS custom properties.
type Document interface {
	// SetAttribute sets an attribute such as data-theme.
	SetAttribute(name, value string)

	// SetProperty sets a CSS property on the root, custom (--primary-color) or
	// standard (color-scheme).
	SetProperty(name, value string)

	// SetClass adds or removes a class on the root.
	SetClass(name string, enabled bool)
}
