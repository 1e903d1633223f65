package tailer

import (
	"os"
)

func checkAccess(file string) error {
	fd, err := os.Open(file)
	if err != nil {
		return err
	}

	return fd.Close()
}
