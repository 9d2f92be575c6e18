package main

import "github.com/spec-kit/vesting-service/cmd/vestingctl/cmd"

func main() {
	cmd.Execute()
}
