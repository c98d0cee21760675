package main

import "github.com/osa911/formrelay/internal/cli"

func main() {
	cli.Execute()
}
