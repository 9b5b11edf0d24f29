package main

import "tradeJournal/internal/cli"

func main() {
	cli.Execute()
}
