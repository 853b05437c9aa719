package main

import "notion-mirror/cmd"

func main() {
	cmd.Execute()
}
