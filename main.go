package main

import "github.com/speaklens/speaklens/cmd"

func main() {
	cmd.Execute()
}
