package repository

import "os"

func Save(data []byte) error {
	if err := os.WriteFile("count.json", data, 0644); err != nil {
		return err
	}
	return os.Remove("snapshot-1.json")
}
