package main

import "github.com/SscSPs/card_ledger_app/cmd/card_ledger_token/cmd"

func main() {
	cmd.Execute()
}
