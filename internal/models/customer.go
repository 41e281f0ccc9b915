package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Customer represents a customer record ("cliente")
type Customer struct {
	ID          int64     `json:"id"`
	Nome        string    `json:"nome"`
	CPF         string    `json:"cpf"`
	CEP         string    `json:"cep"`
	Endereco    string    `json:"endereco"`
	Numero      string    `json:"numero"`
	Complemento *string   `json:"complemento"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Address is a street address resolved from a CEP
type Address struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
}

// Format renders the address as stored in Customer.Endereco,
// e.g. "Praça da Sé, Sé, São Paulo-SP".
func (a Address) Format() string {
	return fmt.Sprintf("%s, %s, %s-%s", a.Logradouro, a.Bairro, a.Localidade, a.UF)
}

// CustomerPatch holds the fields present in an update request.
// Nil pointers mean "not sent". Complemento additionally tracks an
// explicit null through ComplementoSet.
type CustomerPatch struct {
	Nome           *string
	CPF            *string
	CEP            *string
	Endereco       *string
	Numero         *string
	Complemento    *string
	ComplementoSet bool
}

// UnmarshalJSON decodes a patch, keeping track of which keys were sent.
// Unknown keys are ignored. A null on a required column is treated as absent.
func (p *CustomerPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	targets := map[string]**string{
		"nome":     &p.Nome,
		"cpf":      &p.CPF,
		"cep":      &p.CEP,
		"endereco": &p.Endereco,
		"numero":   &p.Numero,
	}

	for key, dst := range targets {
		value, ok := raw[key]
		if !ok || isJSONNull(value) {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return fmt.Errorf("field %q must be a string", key)
		}
		*dst = &s
	}

	if value, ok := raw["complemento"]; ok {
		p.ComplementoSet = true
		if !isJSONNull(value) {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return fmt.Errorf("field %q must be a string", "complemento")
			}
			p.Complemento = &s
		}
	}

	return nil
}

// Apply overwrites the customer's fields with the ones present in the patch
func (p *CustomerPatch) Apply(c *Customer) {
	if p.Nome != nil {
		c.Nome = *p.Nome
	}
	if p.CPF != nil {
		c.CPF = *p.CPF
	}
	if p.CEP != nil {
		c.CEP = *p.CEP
	}
	if p.Endereco != nil {
		c.Endereco = *p.Endereco
	}
	if p.Numero != nil {
		c.Numero = *p.Numero
	}
	if p.ComplementoSet {
		c.Complemento = p.Complemento
	}
}

func isJSONNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
