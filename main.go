package main

import "github.com/frahmantamala/workforce-management/cmd"

func main() {
	cmd.Execute()
}
