// Package ui renders command lifecycle events and streamed command output for
// human consumption, bridging execshell notifications onto a console logger
// and a flushing writer.
package ui
