package main

import "github.com/MorganPeterson/cyclingportal/cmd"

func main() {
	cmd.Execute()
}
