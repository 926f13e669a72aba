package main

import "github.com/jfaurel/email-agent/cmd"

func main() {
	cmd.Execute()
}
