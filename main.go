package main

import "materials-manager/cmd"

func main() {
	cmd.Execute()
}
