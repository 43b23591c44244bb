package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/starnotary/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Request a challenge for the wallet address",
	Run:   challengeRun,
}

func init() {
	rootCmd.AddCommand(challengeCmd)
}

func challengeRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	msg, err := requestChallenge(url, signature.PublicKeyToAddress(privateKey.PublicKey))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(msg)
}
