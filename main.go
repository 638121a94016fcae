package main

import "github.com/alexiusacademia/golc/cmd"

func main() {
	cmd.Execute()
}
