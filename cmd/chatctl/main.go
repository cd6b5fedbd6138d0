// Command chatctl is a terminal client of the chat backend.
package main

import "github.com/xiaot623/chatbridge/internal/cli"

func main() {
	cli.Execute()
}
