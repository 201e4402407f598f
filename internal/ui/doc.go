// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow for bulk video downloads:
//  1. [ConfirmView] : Review the URL batch before submitting
//  2. [ProgressView] : Monitor real-time per-video progress updates
//  3. [ResultView] : Display the saved archive path or the failure reason
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the download Coordinator, providing
// non-blocking status reporting while the batch runs.
//
// Keyboard bindings are minimal (y/n, c to cancel, q to quit) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
