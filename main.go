package main

import (
	"github.com/relaymesh/mailbox/app/cmd"
)

func main() {
	cmd.Execute()
}
