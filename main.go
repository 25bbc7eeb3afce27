package main

import "github.com/delegen/delegen/cmd"

func main() {
	cmd.Execute()
}
