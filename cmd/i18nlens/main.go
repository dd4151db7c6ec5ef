package main

import "github.com/viant/i18nlens/cli"

func main() {
	cli.Execute()
}
