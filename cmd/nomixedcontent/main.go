// Package main provides the entry point for the nomixedcontent CLI.
//
// nomixedcontent crawls a website over HTTPS and reports pages that
// reference sub-resources over plain HTTP (mixed content).
//
// Usage:
//
//	nomixedcontent scan <url>
//	nomixedcontent history
//
// See --help for all available options.
package main

// main is the entry point for nomixedcontent.
func main() {
	Execute()
}
