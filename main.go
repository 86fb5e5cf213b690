package main

import "github.com/kozaktomas/facedesk/cmd"

func main() {
	cmd.Execute()
}
