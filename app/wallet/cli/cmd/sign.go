package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/starnotary/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign [message]",
	Short: "Sign a challenge message with the wallet key",
	Args:  cobra.ExactArgs(1),
	Run:   signRun,
}

func init() {
	rootCmd.AddCommand(signCmd)
}

func signRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	sig, err := signature.SignMessage(args[0], privateKey)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(sig)
}
