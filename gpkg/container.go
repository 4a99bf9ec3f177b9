package gpkg

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"limitd.dev/limitd/params"
)

// Container is an open, read-only handle to a GeoPackage. One handle per
// container path; held for the process lifetime and closed on teardown.
type Container struct {
	DB   *sql.DB
	Path string
}

// Locate finds the container file: the writable data directory wins, and a
// copy shipped in the read-only bundle directory is copied there once on
// first use. ErrContainerUnavailable if neither location has it.
func Locate(name string) (string, error) {
	dataFile := filepath.Join(params.DataPath, name)
	exists, err := params.Exists(dataFile)
	if err != nil {
		return "", err
	}
	if exists {
		return dataFile, nil
	}

	bundleFile := filepath.Join(params.BundlePath, name)
	exists, err = params.Exists(bundleFile)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrContainerUnavailable
	}

	slog.Info("copying bundled container to data directory", "from", bundleFile, "to", dataFile)
	err = copyFile(bundleFile, dataFile)
	if err != nil {
		return "", errors.Wrap(err, "could not copy bundled container")
	}
	return dataFile, nil
}

func copyFile(src string, dst string) error {
	err := os.MkdirAll(filepath.Dir(dst), 0o775)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), ".tmp_"+filepath.Base(dst))
	if err != nil {
		return err
	}
	tmpName := out.Name()
	defer os.Remove(tmpName)

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()
		return err
	}
	err = out.Close()
	if err != nil {
		return err
	}

	return os.Rename(tmpName, dst)
}

// Open opens the container at path read-only.
func Open(path string) (*Container, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "could not open container")
	}
	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not read container")
	}
	return &Container{DB: db, Path: path}, nil
}

// OpenNamed locates a container by file name and opens it.
func OpenNamed(name string) (*Container, error) {
	path, err := Locate(name)
	if err != nil {
		return nil, err
	}
	return Open(path)
}

func (c *Container) Close() error {
	return c.DB.Close()
}
