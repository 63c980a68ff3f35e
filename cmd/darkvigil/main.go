// Package main provides the entry point for the darkvigil CLI.
//
// DarkVigil is a dark-web reconnaissance toolkit. It searches multiple
// hidden-service search engines for a keyword and audits individual web
// targets for security misconfigurations.
//
// Usage:
//
//	darkvigil search <term>
//	darkvigil audit <target>
//
// See --help for all available options.
package main

// main is the entry point for darkvigil.
func main() {
	Execute()
}
