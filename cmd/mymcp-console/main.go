package main

import "github.com/mymcp/console/internal/cli"

func main() {
	cli.Execute()
}
