package main

import "github.com/kailas-cloud/assetq/internal/cli"

func main() {
	cli.Execute()
}
