package main

import "github.com/pfrederiksen/conf-hunt/internal/cli"

func main() {
	cli.Execute()
}
