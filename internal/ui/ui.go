// Package ui is the interactive board alignment window.
package ui

import (
	"log"
	"os"

	"gioui.org/app"
)

// Run opens the window for the project at path and blocks until it
// closes.
func Run(projectPath string) error {
	go func() {
		w := new(app.Window)
		ui := New(w, projectPath)
		if err := ui.Run(); err != nil {
			log.Printf("ui: %v", err)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
