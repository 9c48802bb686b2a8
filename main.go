package main

import "github.com/theirongolddev/goalpost/cmd"

func main() {
	cmd.Execute()
}
