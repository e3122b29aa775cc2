package repository

import (
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fileStateRepository guarda um objeto JSON chave-valor em disco, usado pela CLI
type fileStateRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileStateRepository(path string) StateRepository {
	return &fileStateRepository{path: path}
}

// DefaultStatePath devolve o arquivo de estado no diretório de configuração do usuário
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "convbench", "storage.json")
}

func (f *fileStateRepository) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return "", false, err
	}

	value, ok := entries[key]
	return value, ok, nil
}

func (f *fileStateRepository) Set(key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		// Arquivo ilegível é substituído, como um localStorage limpo
		entries = map[string]string{}
	}
	entries[key] = value

	return f.write(entries)
}

func (f *fileStateRepository) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)

	return f.write(entries)
}

func (f *fileStateRepository) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading state file %s", f.path)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "decoding state file %s", f.path)
	}

	return entries, nil
}

func (f *fileStateRepository) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding state file")
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errors.Wrapf(err, "creating state dir for %s", f.path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".storage-*.json")
	if err != nil {
		return errors.Wrap(err, "creating temp state file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp state file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp state file")
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrapf(err, "replacing state file %s", f.path)
	}

	return nil
}
