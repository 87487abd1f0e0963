package port

// StylesheetSource renders the current document state as CSS.
type StylesheetSource interface {
	CSS() string
}
