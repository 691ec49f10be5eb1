package main

import "github.com/gridmend/gridmend/cmd"

func main() {
	cmd.Execute()
}
