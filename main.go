package main

import "github.com/julienpequegnot/blogrank/cmd"

func main() {
	cmd.Execute()
}
