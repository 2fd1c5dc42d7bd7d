package command

import (
	"fmt"
	"os"

	"github.com/fishgills/mud/deploy/internal/infra/ui"
	"github.com/joho/godotenv"
)

// loadEnvFile loads path, or .env in the working directory when path is
// empty. Load failures are warnings.
func loadEnvFile(path string, out ui.UserInterface) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			out.Warn(fmt.Sprintf("failed to load env file %s: %v", path, err))
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			out.Warn(fmt.Sprintf("failed to load .env: %v", err))
		}
	}
}
