// Command glyph is a small inspector/demo CLI for the module and
// global-binding subsystem, built as a single-binary toolbox command.
package main

import "github.com/glyphlang/glyph/internal/cli"

func main() {
	cli.Execute()
}
