// Package data holds the built-in narrative content for the Guining Hotel.
package data

import "embed"

// FS contains clues.json, truths.json, rooms.json and dialogue.json.
//
//go:embed *.json
var FS embed.FS
