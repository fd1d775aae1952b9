package assets

import (
	"io/fs"
)

var efs fs.FS

func GetData() fs.FS {
	return efs
}

func UpdateData(d fs.FS) {
	efs = d
}

// ReadFile reads a single asset from the registered filesystem.
func ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(efs, path)
}

// GetAllFilenames return all file names from a path in the registered FS.
func GetAllFilenames(efs fs.FS, path string) (files []string, err error) {
	if err := fs.WalkDir(efs, path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		files = append(files, path)

		return nil
	}); err != nil {
		return nil, err
	}

	return files, nil
}
