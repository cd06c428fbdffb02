package main

import "github.com/oshokin/photo-frame/cmd/photo-frame/cmd"

func main() {
	cmd.Execute()
}
