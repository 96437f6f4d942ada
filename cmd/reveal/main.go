// Command reveal is the standalone CLI for running the checkers and
// browsing their recorded call-site types outside of a test binary.
package main

import "github.com/mouse-blink/reveal/cmd"

func main() {
	cmd.Execute()
}
