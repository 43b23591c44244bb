package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/starnotary/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the stars registered by the wallet address",
	Run:   recordsRun,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}

func recordsRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	var records []json.RawMessage
	endpoint := fmt.Sprintf("%s/v1/records/address/%s", url, signature.PublicKeyToAddress(privateKey.PublicKey))
	if err := call(http.MethodGet, endpoint, nil, &records); err != nil {
		log.Fatal(err)
	}

	for _, record := range records {
		fmt.Println(string(record))
	}
}
