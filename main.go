package main

import "batchcut/cmd"

func main() {
	cmd.Execute()
}
