// main package for scopemv command-line tool
// Package main is the entry point for the scopemv CLI.
package main

import "scopemv.dev/pkg/scopemv/cmd"

func main() {
	cmd.Execute()
}
