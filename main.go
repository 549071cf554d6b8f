package main

import "github.com/jsphweid/pianov/cmd"

func main() {
	cmd.Execute()
}
