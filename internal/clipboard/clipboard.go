// Package clipboard copies rendered dashboards to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// writeAll is a package-level variable to allow mocking in tests.
var writeAll = clipboard.WriteAll

// CopyText copies plain text to the system clipboard.
func CopyText(text string) error {
	if err := writeAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
