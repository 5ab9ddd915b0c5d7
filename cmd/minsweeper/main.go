package main

import "github.com/denismitr/minsweeper/internal/cli"

func main() {
	cli.Execute()
}
