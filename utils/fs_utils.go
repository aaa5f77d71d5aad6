package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CreateFile will create a file at the given path and file name combination. If the path is the empty string, the
// file will be created in the current working directory.
func CreateFile(path string, fileName string) (*os.File, error) {
	// By default, the path will be the name of the file
	filePath := fileName

	// Check to see if the file needs to be created in another directory or the working directory
	if path != "" {
		// Make the directory, if it does not exist already
		err := MakeDirectory(path)
		if err != nil {
			return nil, err
		}
		// Since the path is non-empty, concatenate the path with the name of the file
		filePath = filepath.Join(path, fileName)
	}

	// Create the file
	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return file, nil
}

// GetFilePathWithoutExtension obtains a file path without the extension. This retains all preceding directory paths.
func GetFilePathWithoutExtension(filePath string) string {
	return filePath[:len(filePath)-len(filepath.Ext(filePath))]
}

// MakeDirectory creates a directory at the given path, including any parent directories which do not exist.
// Returns an error, if one occurred.
func MakeDirectory(dirToMake string) error {
	dirInfo, err := os.Stat(dirToMake)
	if err != nil {
		// Directory does not exist, as expected.
		if os.IsNotExist(err) {
			err = os.MkdirAll(dirToMake, 0777)
			if err != nil {
				return errors.WithStack(err)
			}

			// Successfully made the directory
			return nil
		}
		// Some other sort of error, throw it
		return errors.WithStack(err)
	}

	// dirToMake is a file, throw an error accordingly
	if !dirInfo.IsDir() {
		return fmt.Errorf("there is a file with the same name as %s", dirToMake)
	}

	// Directory already exists, good to go
	return nil
}

// WriteJSONFile persists already-serialized JSON data at the provided path, creating parent directories as needed.
func WriteJSONFile(path string, data []byte) error {
	// Ensure the existence of the directory we wish to write to.
	err := MakeDirectory(filepath.Dir(path))
	if err != nil {
		return err
	}

	// Write the serialized data
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}
