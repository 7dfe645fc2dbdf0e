package main

import "github.com/lazuli-lang/lazuli/pkg/cli"

func main() {
	cli.Run()
}
