package main // Entry point package

import "github.com/iliyamo/bookstore/cmd/server/commands"

func main() {
	commands.Execute()
}
