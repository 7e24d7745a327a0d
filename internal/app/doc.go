// Package app contains the core application logic. It wires the description
// loader, the per-function analysis and the weighted TDG phase together and
// writes the report, decoupled from any specific entrypoint like a CLI.
package app
