package main

import "github.com/ffbuild/gngen/cmd"

func main() {
	cmd.Execute()
}
