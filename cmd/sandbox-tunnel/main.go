package main

import "sandbox-tunnel/internal/cmd"

func main() {
	cmd.Execute()
}
