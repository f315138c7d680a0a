package main

import "stepkit/internal/cli"

func main() {
	cli.Execute()
}
