// Command recall is a self-learning question answering tool.
package main

import (
	"github.com/custodia-labs/recall-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
