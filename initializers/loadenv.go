package initializers

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// LoadEnv loads .env into the process environment. A missing file is not an
// error; deployments set the variables directly.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	log.Println("Loading env file")
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[LoadEnv] %s not found, using process environment", f)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	log.Println("Env loaded successfully")
	return nil
}
