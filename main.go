package main

import "github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/cmd"

func main() {
	cmd.Execute()
}
