package main

import "nathanbeddoewebdev/dirctl/cmd"

func main() {
	cmd.Execute()
}
