package main

import "github.com/OpenTraceLab/OpenTracePNP/cmd/otp/cmd"

func main() {
	cmd.Execute()
}
