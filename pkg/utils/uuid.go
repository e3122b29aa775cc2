package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRef gera a referência curta anexada ao link de agendamento
func GenerateRef() (string, error) {
	return gonanoid.Generate(characters, 8)
}
