package writer

import (
	"log"
	"os"
)

func SaveCount(data []byte) error {
	return os.WriteFile("count.json", data, 0644) // want "os.WriteFile outside the repository package; go through the store"
}

func DropSnapshot() error {
	return os.Remove("snapshot-1.json") // want "os.Remove outside the repository package; go through the store"
}

func ReadCount() ([]byte, error) {
	return os.ReadFile("count.json")
}

func MakeDir() error {
	return os.MkdirAll("storage", 0755)
}

func Bail() {
	log.Fatalf("bail") // want "call to log.Fatal or os.Exit outside main.main"
}

func Quit() {
	os.Exit(1) // want "call to log.Fatal or os.Exit outside main.main"
}

func Report() {
	log.Println("ok")
}
