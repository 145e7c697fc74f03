// Package credstore persists the opaque session credential between launches,
// playing the part browser storage plays for the hosted frontend.
package credstore

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/educhain/backend/core/actor"
)

type fileStore struct {
	path string
}

var _ actor.CredentialStore = (*fileStore)(nil)

func NewFileStore(path string) actor.CredentialStore {
	return &fileStore{path: path}
}

func (st *fileStore) Load() (string, error) {
	data, err := ioutil.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading credential file")
	}
	return strings.TrimSpace(string(data)), nil
}

func (st *fileStore) Save(cred string) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return errors.Wrap(err, "creating credential dir")
	}
	return errors.Wrap(ioutil.WriteFile(st.path, []byte(cred), 0o600), "writing credential file")
}

func (st *fileStore) Clear() error {
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing credential file")
	}
	return nil
}
