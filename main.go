package main

import "github.com/hikaru-dev/watchscout/cmd"

func main() {
	cmd.Execute()
}
