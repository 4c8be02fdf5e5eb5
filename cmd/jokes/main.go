// Command jokes serves the jokes API and manages its database.
package main

import "github.com/marshallshelly/jokes-api/cmd/jokes/commands"

func main() {
	commands.Execute()
}
