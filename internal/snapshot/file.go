package snapshot

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// WriteFile stores s as JSON at path, replacing what was there.
func WriteFile(path string, s Snapshot) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "could not marshal snapshot %+v", s)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrapf(err, "could not open file %s", path)
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return errors.Wrapf(err, "could not write to file %s", path)
	}

	if err := f.Sync(); err != nil {
		return errors.Wrapf(err, "could not sync file %s", path)
	}

	return nil
}

func ReadFile(path string) (Snapshot, error) {
	var s Snapshot

	b, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrapf(err, "could not read file %s", path)
	}

	if err := json.Unmarshal(b, &s); err != nil {
		return s, errors.Wrapf(ErrInvalidSnapshot, "could not unmarshal %s: %v", path, err)
	}

	return s, nil
}
