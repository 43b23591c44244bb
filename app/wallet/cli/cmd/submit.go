package cmd

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
	"github.com/ardanlabs/starnotary/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var star string

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Request a challenge, sign it and register a star",
	Run:   submitRun,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVarP(&star, "star", "s", "", "Star document as JSON.")
}

func submitRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	block, err := submitStar(url, privateKey, json.RawMessage(star))
	if err != nil {
		log.Fatal(err)
	}

	out, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(out))
}

// submitStar performs the full registration: it requests a challenge for
// the key's address, signs it and submits the star.
func submitStar(nodeURL string, privateKey *ecdsa.PrivateKey, star json.RawMessage) (database.Block, error) {
	if !json.Valid(star) {
		return database.Block{}, errors.New("star must be a JSON document")
	}

	address := signature.PublicKeyToAddress(privateKey.PublicKey)

	msg, err := requestChallenge(nodeURL, address)
	if err != nil {
		return database.Block{}, err
	}

	sig, err := signature.SignMessage(msg, privateKey)
	if err != nil {
		return database.Block{}, fmt.Errorf("sign challenge: %w", err)
	}

	req := struct {
		Address   string          `json:"address"`
		Message   string          `json:"message"`
		Signature string          `json:"signature"`
		Star      json.RawMessage `json:"star"`
	}{
		Address:   address,
		Message:   msg,
		Signature: sig,
		Star:      star,
	}

	var block database.Block
	if err := call(http.MethodPost, nodeURL+"/v1/records", req, &block); err != nil {
		return database.Block{}, fmt.Errorf("submit record: %w", err)
	}

	return block, nil
}
