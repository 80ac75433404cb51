// Package clipboard exposes the system clipboard as a text source.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Source reads and writes the system clipboard
type Source struct{}

// Available reports whether a clipboard utility was found on this system
func (Source) Available() bool {
	return !clipboard.Unsupported
}

func (Source) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return text, nil
}

// Write replaces the clipboard contents. Only presentation writes to the clipboard.
func (Source) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
