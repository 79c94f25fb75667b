package main

import "epics-require/internal/cli"

func main() {
	cli.Execute()
}
