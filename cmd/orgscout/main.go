// Command orgscout inspects GitHub organizations from the command line.
package main

import "github.com/mesh-intelligence/orgscout/internal/cli"

func main() {
	cli.Execute()
}
