package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var client = http.Client{
	Timeout: 10 * time.Second,
}

// errorResponse is the document the node returns on failure.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// call sends the request to the node and decodes the response into resp.
func call(method string, endpoint string, body any, resp any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, endpoint, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var er errorResponse
		if err := json.NewDecoder(res.Body).Decode(&er); err != nil {
			return fmt.Errorf("status %d", res.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("status %d: %s: %v", res.StatusCode, er.Error, er.Fields)
		}
		return fmt.Errorf("status %d: %s", res.StatusCode, er.Error)
	}

	if resp == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(resp)
}

// requestChallenge asks the node for the message the address must sign.
func requestChallenge(nodeURL string, address string) (string, error) {
	req := struct {
		Address string `json:"address"`
	}{
		Address: address,
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := call(http.MethodPost, nodeURL+"/v1/challenge", req, &resp); err != nil {
		return "", fmt.Errorf("request challenge: %w", err)
	}

	return resp.Message, nil
}
