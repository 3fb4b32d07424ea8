package main

import "github.com/sadopc/chronomark/cmd"

func main() {
	cmd.Execute()
}
