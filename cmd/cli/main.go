package main

import "github.com/hamed0406/pingme/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
