package main

import "github.com/jmanhart/git-memories/cmd"

func main() {
	cmd.Execute()
}
