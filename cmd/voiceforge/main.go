// Package main is the entry point for the voiceforge CLI.
//
// Usage:
//
//	voiceforge [flags] <command> [args]
//
// Commands:
//
//	create   - Build a voice profile from sample recordings
//	list     - List stored profiles
//	info     - Show one profile in detail
//	rename   - Change a profile's display name
//	delete   - Remove a profile
//	export   - Write a profile as a portable bundle
//	import   - Load a profile from a bundle
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/kaiwachan/voiceforge/cmd/voiceforge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
