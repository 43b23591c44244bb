// This program provides a wallet for generating keys and registering stars
// with a notary node.
package main

import "github.com/ardanlabs/starnotary/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
