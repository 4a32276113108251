package main

import "github.com/gitpipe/gitpipe/cmd"

func main() {
	cmd.Run()
}
