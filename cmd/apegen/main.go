package main

import "github.com/apehub/apegen/internal/cmd"

func main() {
	cmd.Execute()
}
