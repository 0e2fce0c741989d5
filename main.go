package main

import "github.com/pvogel/castdeck/internal/cli"

func main() {
	cli.Execute()
}
