package main

import "github.com/Yates-Labs/linkforge/cmd"

func main() {
	cmd.Execute()
}
