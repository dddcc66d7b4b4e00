package main

import "github.com/OpenTraceLab/OpenTracePlace/cmd/otp/cmd"

func main() {
	cmd.Execute()
}
