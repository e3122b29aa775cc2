// Package repository contém as implementações dos repositórios de estado do formulário
package repository

import (
	"github.com/pkg/errors"
)

var (
	// ErrQuotaExceeded indica que o valor não cabe no armazenamento
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// StateRepository é um armazenamento chave-valor local ao visitante,
// no mesmo espírito do localStorage do navegador
type StateRepository interface {
	// Get retorna o valor salvo e se a chave existe
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	Remove(key string) error
}
