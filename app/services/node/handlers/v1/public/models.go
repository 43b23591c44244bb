package public

import "encoding/json"

type challengeRequest struct {
	Address string `json:"address" validate:"required"`
}

type challengeResponse struct {
	Message   string `json:"message"`
	ExpiresIn int64  `json:"expiresIn"`
}

type submitRequest struct {
	Address   string          `json:"address" validate:"required"`
	Message   string          `json:"message" validate:"required"`
	Signature string          `json:"signature" validate:"required"`
	Star      json.RawMessage `json:"star" validate:"required"`
}

type height struct {
	Height int64 `json:"height"`
}

type record struct {
	Address   string          `json:"address"`
	Name      string          `json:"name"`
	Message   string          `json:"message"`
	Signature string          `json:"signature"`
	Star      json.RawMessage `json:"star"`
}
