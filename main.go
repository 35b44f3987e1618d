package main

import "github.com/Laisky/twitter-clone/cmd"

func main() {
	cmd.Execute()
}
