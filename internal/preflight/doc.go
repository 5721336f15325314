// Package preflight runs startup checks for directories, disk headroom,
// external tools, and the text generation API.
package preflight
