// Command ecotrack runs the campus sustainability tracker.
package main

import "github.com/ecotrack-campus/ecotrack/internal/cli"

func main() {
	cli.Execute()
}
