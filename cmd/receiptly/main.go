package main

import "github.com/receiptly/receiptly/internal/cli"

func main() {
	cli.Execute()
}
