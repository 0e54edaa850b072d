package main

import "github.com/KaramelBytes/trapstat-cli/cmd"

func main() {
	cmd.Execute()
}
