package main

import "phpswitcher/internal/cli"

func main() {
	cli.Execute()
}
