// Package ui renders migration progress on the console with [lipgloss] styles.
//
// A [Printer] drains the [tasks.ProgressUpdate] channel filled by the
// synchronizers, writing one line per update:
//   - playlist creation and lookup as titles
//   - unresolved rows and albums as warnings
//   - duplicates muted
//   - successful adds in green, rejected adds in red
//
// Colors degrade to plain text when the output is not a terminal.
package ui
