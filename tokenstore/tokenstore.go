// Package tokenstore keeps the repository access token on disk, encrypted with a key derived from
// a passphrase.
package tokenstore

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// version is the current format of the stored file.
const version = 1

// Errors returned by the store.
var (
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted token")
	ErrNoToken         = errors.New("no token stored")
)

// Params are the scrypt key derivation parameters.
type Params struct {
	N, R, P int
}

// DefaultParams are the recommended interactive scrypt parameters.
var DefaultParams = Params{N: 1 << 15, R: 8, P: 1}

// blob is the stored JSON structure.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// Store is an encrypted token file.
type Store struct {
	Path   string
	Params Params
}

// New returns a store at path using DefaultParams.
func New(path string) *Store {
	return &Store{
		Path:   path,
		Params: DefaultParams,
	}
}

// DefaultPath returns the token file in the user configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shoplcon", "token.json"), nil
}

// Save encrypts token with passphrase and writes it, replacing a previous token.
func (s *Store) Save(passphrase, token string) error {
	b, err := encrypt(passphrase, []byte(token), s.Params)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	return writeFile(s.Path, b, 0600)
}

// Load reads and decrypts the token. It returns ErrNoToken if none is stored and
// ErrWrongPassphrase if the passphrase does not match.
func (s *Store) Load(passphrase string) (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	} else if err != nil {
		return "", err
	}
	token, err := decrypt(passphrase, b)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists returns true if a token is stored.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

func encrypt(passphrase string, raw []byte, params Params) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], params.N, params.R, params.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // the key is unique per salt
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(blob{
		V:      version,
		Salt:   salt[:],
		N:      params.N,
		R:      params.R,
		P:      params.P,
		Cipher: ct,
	})
}

func decrypt(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, fmt.Errorf("bad token file: %w", err)
	}
	if bl.V > version {
		return nil, fmt.Errorf("unsupported token file version %d", bl.V)
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

// writeFile writes to a temporary file and renames it over path.
func writeFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
